// Package main is the production entry point for Aurora, an audio-reactive
// procedural background.
//
// Build:
//
//	go build -o build/aurora ./cmd
//
// Run the window:
//
//	./build/aurora run --synth
//	./build/aurora --audio song.flac --mode hologram
//
// Render frames without a window:
//
//	./build/aurora render -n 120 -o frames --synth --seed 42
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/integrii/flaggy"
	"github.com/tejashwikalptaru/aurora/internal/app"
	"github.com/tejashwikalptaru/aurora/internal/domain"
	"github.com/tejashwikalptaru/aurora/internal/logger"
)

// AppDesc is the app description
const AppDesc = "Audio-reactive procedural background"

type options struct {
	mode     string
	logLevel string
	frames   int
	outDir   string
}

func main() {
	log.SetFlags(0)

	config := app.DefaultConfig()
	opts := options{frames: 60, outDir: "frames"}

	parser := flaggy.NewParser("aurora")
	parser.Description = AppDesc
	parser.Version = app.GetVersionInfo().FullString()

	runCmd := flaggy.NewSubcommand("run")
	runCmd.Description = "open the background window (the default)"
	parser.AttachSubcommand(runCmd, 1)

	renderCmd := flaggy.NewSubcommand("render")
	renderCmd.Description = "render frames to PNG files without opening a window"
	renderCmd.Int(&opts.frames, "n", "frames", "number of frames to render")
	renderCmd.String(&opts.outDir, "o", "out", "output directory")
	parser.AttachSubcommand(renderCmd, 1)

	parser.String(&config.AudioPath, "a", "audio", "audio file to play (mp3, wav, flac, ogg)")
	parser.Bool(&config.UseSynthAudio, "s", "synth", "play the generated spectrum when no file is given")
	parser.String(&opts.mode, "m", "mode", "background mode (adaptive, particles, neural, hologram, matrix, minimal)")
	parser.Int64(&config.Seed, "", "seed", "random seed")
	parser.Int(&config.FPS, "", "fps", "frames per second")
	parser.Int(&config.Width, "", "width", "width in pixels")
	parser.Int(&config.Height, "", "height", "height in pixels")
	parser.String(&opts.logLevel, "l", "log-level", "DEBUG, INFO, WARN or ERROR")

	chk(parser.Parse())

	if opts.mode != "" {
		mode, ok := domain.ParseMode(opts.mode)
		if !ok {
			log.Fatalf("error unknown mode %q", opts.mode)
		}
		config.Mode = mode
	}
	if opts.logLevel != "" {
		level, ok := logger.ParseLevel(opts.logLevel)
		if !ok {
			log.Fatalf("error unknown log level %q", opts.logLevel)
		}
		config.LogLevel = level
	}
	config.Headless = renderCmd.Used

	// Create the application with dependency injection
	application, err := app.NewApplication(config)
	chk(err)

	// Ensure a graceful shutdown
	defer func() {
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
	}()

	if renderCmd.Used {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := application.RenderFrames(ctx, opts.frames, opts.outDir); err != nil {
			fmt.Fprintf(os.Stderr, "Render error: %v\n", err)
		}
		return
	}

	// Run application (blocks until the window closed)
	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
	}
}

func chk(err error) {
	if err != nil {
		log.Fatalln("error", err)
	}
}
