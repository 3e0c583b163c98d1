package engine

import (
	"math"
	"math/rand"

	"github.com/tejashwikalptaru/aurora/internal/ports"
)

const (
	// NeuralLinkDistance is the exclusive edge cutoff in pixels.
	NeuralLinkDistance = 200.0

	neuralMinLinks      = 2
	neuralExtraLinks    = 3 // rng.Intn bound: 2..4 links
	neuralMaxSpeed      = 0.5
	neuralAttack        = 0.1
	neuralDecay         = 0.95
	neuralBoostScale    = 2.0
	neuralNodeRadius    = 3.0
	neuralBoostRadius   = 5.0
	neuralGlowBoost     = 0.7
	neuralEdgeActivity  = 0.3
	neuralEdgeInfluence = 0.4
)

// NeuralNode is one vertex of the neural graph.
type NeuralNode struct {
	X, Y   float64
	VX, VY float64

	// Connections holds indices of linked nodes. Links are symmetric.
	Connections []int

	// Activity is a smoothed 0..1 excitation level
	Activity float64

	// AudioBoost is this frame's bass drive (0..2)
	AudioBoost float64
}

// NeuralGraph is the neural network subsystem.
type NeuralGraph struct {
	rng    *rand.Rand
	nodes  []NeuralNode
	width  float64
	height float64
}

// NewNeuralGraph creates an empty graph drawing randomness from rng.
func NewNeuralGraph(rng *rand.Rand) *NeuralGraph {
	return &NeuralGraph{rng: rng}
}

// Kind implements Subsystem.
func (g *NeuralGraph) Kind() Kind { return KindNeural }

// Len implements Pooled.
func (g *NeuralGraph) Len() int { return len(g.nodes) }

// Nodes returns the pool. The slice is owned by the graph.
func (g *NeuralGraph) Nodes() []NeuralNode { return g.nodes }

// Reset scatters count nodes and wires each one to 2-4 of the nodes placed
// before it. Every link is recorded on both ends, so early nodes end up with
// more connections than late ones.
// nolint:gosec // G404 - weak random is fine for visual effects
func (g *NeuralGraph) Reset(width, height float64, count int) {
	g.width, g.height = width, height
	g.nodes = make([]NeuralNode, count)

	for i := range g.nodes {
		n := &g.nodes[i]
		n.X = g.rng.Float64() * width
		n.Y = g.rng.Float64() * height
		n.VX = (g.rng.Float64() - 0.5) * neuralMaxSpeed
		n.VY = (g.rng.Float64() - 0.5) * neuralMaxSpeed
		n.Activity = g.rng.Float64() * 0.5

		links := neuralMinLinks + g.rng.Intn(neuralExtraLinks)
		if links > i {
			links = i
		}
		for _, j := range g.rng.Perm(i)[:links] {
			g.link(i, j)
		}
	}
}

func (g *NeuralGraph) link(a, b int) {
	if a == b {
		return
	}
	for _, existing := range g.nodes[a].Connections {
		if existing == b {
			return
		}
	}
	g.nodes[a].Connections = append(g.nodes[a].Connections, b)
	g.nodes[b].Connections = append(g.nodes[b].Connections, a)
}

// Update drifts the nodes and drives activity from the bass band: a fast
// attack while audio plays, a slow decay once it stops.
func (g *NeuralGraph) Update(fc *FrameContext) {
	speed := fc.Config.AnimationSpeed
	active := fc.AudioActive()
	count := len(g.nodes)

	for i := range g.nodes {
		n := &g.nodes[i]

		n.X, n.VX = bounce(n.X+n.VX*speed, n.VX, g.width)
		n.Y, n.VY = bounce(n.Y+n.VY*speed, n.VY, g.height)

		if active {
			n.AudioBoost = fc.BassSample(i, count) * neuralBoostScale
			n.Activity = math.Min(1, n.Activity+n.AudioBoost*neuralAttack)
		} else {
			n.Activity *= neuralDecay
			n.AudioBoost = 0
		}
	}
}

// Linked reports whether an edge between a and b is short enough to draw.
func Linked(a, b *NeuralNode) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) < NeuralLinkDistance
}

// Render draws each link once, then the nodes on top.
func (g *NeuralGraph) Render(c ports.Canvas, fc *FrameContext) {
	for i := range g.nodes {
		a := &g.nodes[i]
		for _, j := range a.Connections {
			if j <= i {
				continue
			}
			b := &g.nodes[j]
			if !Linked(a, b) {
				continue
			}

			influence := (a.AudioBoost + b.AudioBoost) / (2 * neuralBoostScale)
			alpha := (a.Activity+b.Activity)/2*neuralEdgeActivity + influence*neuralEdgeInfluence
			c.StrokeLine(a.X, a.Y, b.X, b.Y, 1+influence*2, rgba(fc.Palette.Secondary, alpha))
		}
	}

	for i := range g.nodes {
		n := &g.nodes[i]
		radius := neuralNodeRadius + n.AudioBoost*neuralBoostRadius
		if n.AudioBoost > neuralGlowBoost {
			c.FillCircle(n.X, n.Y, radius*2, rgba(fc.Palette.Accent, 0.15+n.Activity*0.15))
		}
		c.FillCircle(n.X, n.Y, radius, rgba(fc.Palette.Primary, 0.5+n.Activity*0.5))
	}
}

// bounce keeps v inside [0, limit], reversing velocity at the edges.
func bounce(v, vel, limit float64) (float64, float64) {
	switch {
	case v < 0:
		return 0, math.Abs(vel)
	case v > limit:
		return limit, -math.Abs(vel)
	}
	return v, vel
}

var _ Pooled = (*NeuralGraph)(nil)
