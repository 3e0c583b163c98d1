package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/aurora/internal/domain"
)

func TestNeuralConnectionsSymmetric(t *testing.T) {
	g := NewNeuralGraph(newRNG())
	g.Reset(1200, 800, 50)

	nodes := g.Nodes()
	require.Len(t, nodes, 50)

	for i, n := range nodes {
		seen := map[int]bool{}
		for _, j := range n.Connections {
			require.True(t, j >= 0 && j < len(nodes), "node %d links to %d", i, j)
			require.NotEqual(t, i, j, "self link on %d", i)
			require.False(t, seen[j], "duplicate link %d-%d", i, j)
			seen[j] = true
			assert.Contains(t, nodes[j].Connections, i, "link %d-%d is one-sided", i, j)
		}
		if i > 0 {
			assert.NotEmpty(t, n.Connections, "node %d is isolated", i)
		}
	}
}

func TestNeuralEdgePruningBoundary(t *testing.T) {
	cases := []struct {
		distance float64
		edges    int
	}{
		{199.999, 1},
		{200.001, 0},
		{200.0, 0},
		{50, 1},
	}

	for _, tc := range cases {
		g := NewNeuralGraph(newRNG())
		g.width, g.height = 1000, 1000
		g.nodes = []NeuralNode{
			{X: 100, Y: 100, Connections: []int{1}},
			{X: 100 + tc.distance*0.6, Y: 100 + tc.distance*0.8, Connections: []int{0}},
		}

		c := newRecordingCanvas(1000, 1000)
		g.Render(c, frame(domain.DefaultBackgroundConfig(), 1000, 1000))

		assert.Equal(t, tc.edges, c.count("line"), "distance %v", tc.distance)
		assert.Equal(t, 2, c.count("circle"), "nodes draw regardless of edges")
	}
}

func TestNeuralEdgeStyle(t *testing.T) {
	g := NewNeuralGraph(newRNG())
	g.nodes = []NeuralNode{
		{X: 0, Y: 0, Connections: []int{1}, Activity: 1, AudioBoost: 2},
		{X: 10, Y: 0, Connections: []int{0}, Activity: 0, AudioBoost: 0},
	}

	c := newRecordingCanvas(100, 100)
	g.Render(c, frame(domain.DefaultBackgroundConfig(), 100, 100))

	lines := c.filter("line")
	require.Len(t, lines, 1)
	// influence = (2+0)/4 = 0.5, alpha = 0.5*0.3 + 0.5*0.4
	assert.InDelta(t, 2.0, lines[0].width, 1e-9)
	assert.Equal(t, uint8(89), lines[0].c.A)

	circles := c.filter("circle")
	require.Len(t, circles, 3, "the boosted node gets a glow")
	assert.InDelta(t, 26.0, circles[0].r, 1e-9)
	assert.InDelta(t, 13.0, circles[1].r, 1e-9)
	assert.InDelta(t, 3.0, circles[2].r, 1e-9)
}

func TestNeuralActivityDecaysWithoutAudio(t *testing.T) {
	g := NewNeuralGraph(newRNG())
	g.Reset(800, 600, 20)
	for i := range g.nodes {
		g.nodes[i].Activity = 1
		g.nodes[i].AudioBoost = 1.5
	}

	fc := frame(domain.DefaultBackgroundConfig(), 800, 600)
	prev := 1.0
	for tick := 0; tick < 100; tick++ {
		g.Update(fc)
		for _, n := range g.Nodes() {
			require.InDelta(t, prev*0.95, n.Activity, 1e-12)
			require.Less(t, n.Activity, prev)
			require.Zero(t, n.AudioBoost)
		}
		prev *= 0.95
	}
	assert.Less(t, prev, 0.01)
}

func TestNeuralLoudBassScenario(t *testing.T) {
	const nodes = 30
	g := NewNeuralGraph(newRNG())
	g.Reset(800, 600, nodes)

	initial := make([]float64, nodes)
	for i, n := range g.Nodes() {
		initial[i] = n.Activity
	}

	// only the lower half of the bass band is loud
	data := make([]byte, 1000)
	for i := 0; i < 50; i++ {
		data[i] = 255
	}
	fc := withAudio(frame(domain.DefaultBackgroundConfig(), 800, 600), data)

	prev := append([]float64(nil), initial...)
	for tick := 0; tick < 20; tick++ {
		g.Update(fc)
		for i, n := range g.Nodes() {
			require.GreaterOrEqual(t, n.Activity, prev[i], "activity fell on node %d while audio played", i)
			prev[i] = n.Activity
		}
	}

	for i, n := range g.Nodes() {
		if i < nodes/2 {
			assert.Greater(t, n.Activity, 0.8, "node %d maps into the loud bins", i)
			assert.InDelta(t, 2.0, n.AudioBoost, 1e-9)
		} else {
			assert.Equal(t, initial[i], n.Activity, "node %d maps into silent bins", i)
			assert.Zero(t, n.AudioBoost)
		}
	}
}

func TestNeuralNodesStayOnCanvas(t *testing.T) {
	g := NewNeuralGraph(newRNG())
	g.Reset(300, 200, 50)
	cfg := domain.DefaultBackgroundConfig()
	cfg.AnimationSpeed = 5
	fc := frame(cfg, 300, 200)

	for tick := 0; tick < 1000; tick++ {
		g.Update(fc)
	}
	for _, n := range g.Nodes() {
		assert.True(t, n.X >= 0 && n.X <= 300)
		assert.True(t, n.Y >= 0 && n.Y <= 200)
	}
}
