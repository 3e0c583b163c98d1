package fyne

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/aurora/internal/adapter/audio/file"
	"github.com/tejashwikalptaru/aurora/res"
)

// FileDialog opens an audio file for the background to react to.
type FileDialog struct {
	window   fyne.Window
	callback func(string)
	logger   *slog.Logger
}

// NewFileDialog creates a new file dialog.
func NewFileDialog(window fyne.Window, callback func(string), logger *slog.Logger) *FileDialog {
	return &FileDialog{
		window:   window,
		callback: callback,
		logger:   logger,
	}
}

// Show displays the file dialog, listing only decodable audio files.
func (d *FileDialog) Show() {
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			d.logger.Error("file dialog error", slog.Any("error", err))
			return
		}
		if reader == nil {
			return // User cancelled
		}
		defer reader.Close()

		filePath := reader.URI().Path()
		if d.callback != nil {
			d.callback(filePath)
		}
	}, d.window)
	open.SetFilter(storage.NewExtensionFileFilter(file.SupportedExtensions))
	open.Show()
}

// ShowAboutDialog shows the version and a short description.
func ShowAboutDialog(window fyne.Window, version string) {
	content := widget.NewRichTextFromMarkdown("**" + APPNAME + "** " + version + "\n\n" + res.AboutContent)
	content.Wrapping = fyne.TextWrapWord
	d := dialog.NewCustom("About "+APPNAME, "Close", content, window)
	d.Resize(fyne.NewSize(420, 300))
	d.Show()
}
