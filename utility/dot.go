package utility

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/vempaliakhil96/nanograd/autograd"
	"github.com/vempaliakhil96/nanograd/nn"
)

// weight colour scale, red (negative) to green (positive)
var weightPalette = []string{"#a50026", "#d73027", "#f46d43", "#fdae61", "#fee08b", "#d9ef8b", "#a6d96a", "#66bd63", "#1a9850"}

// WeightColor picks a palette colour for a weight in [-1, 1]. Values outside
// the range land in the end buckets.
func WeightColor(w float64) string {
	num := int((w + 1) * 5)
	idx := int(math.Floor(float64(num) / 10 * 8))
	if idx < 0 {
		idx = 0
	}
	if idx > 7 {
		idx = 7
	}
	return weightPalette[idx]
}

type dotNode struct {
	id    int64
	attrs []encoding.Attribute
}

func (n dotNode) ID() int64                        { return n.id }
func (n dotNode) Attributes() []encoding.Attribute { return n.attrs }

type dotEdge struct {
	from, to graph.Node
	attrs    []encoding.Attribute
}

func (e dotEdge) From() graph.Node                 { return e.from }
func (e dotEdge) To() graph.Node                   { return e.to }
func (e dotEdge) ReversedEdge() graph.Edge         { return dotEdge{from: e.to, to: e.from, attrs: e.attrs} }
func (e dotEdge) Attributes() []encoding.Attribute { return e.attrs }

// dotGraph lays diagrams out left to right.
type dotGraph struct {
	*simple.DirectedGraph
}

func (g dotGraph) DOTAttributers() (graphAttrs, nodeAttrs, edgeAttrs encoding.Attributer) {
	return attrList{{Key: "rankdir", Value: "LR"}}, attrList{}, attrList{}
}

type attrList []encoding.Attribute

func (a attrList) Attributes() []encoding.Attribute { return a }

func attr(key, value string) encoding.Attribute {
	return encoding.Attribute{Key: key, Value: value}
}

// GraphDOT renders the computation graph rooted at root. Every value becomes a
// record node showing label, data and grad; every non-leaf also gets a small
// node for its operation, fed by the operand edges labelled with the operand position.
func GraphDOT(root *autograd.Value) ([]byte, error) {
	g := dotGraph{simple.NewDirectedGraph()}
	nodes, edges := autograd.Trace(root)

	valueID := func(v *autograd.Value) int64 { return int64(v.ID()) * 2 }
	opID := func(v *autograd.Value) int64 { return int64(v.ID())*2 + 1 }

	for _, v := range nodes {
		record := fmt.Sprintf("{ %s | data %.4f | grad %.4f }", v.Label(), v.Data(), v.Grad())
		vn := dotNode{id: valueID(v), attrs: []encoding.Attribute{attr("label", record), attr("shape", "record")}}
		g.AddNode(vn)
		if v.Op() == autograd.OpLeaf {
			continue
		}
		on := dotNode{id: opID(v), attrs: []encoding.Attribute{attr("label", v.OpLabel())}}
		g.AddNode(on)
		g.SetEdge(dotEdge{from: on, to: vn})
	}

	// x*x feeds the same op node twice; keep one edge listing both positions.
	labels := make(map[[2]int64]string)
	for _, e := range edges {
		key := [2]int64{valueID(e.From), opID(e.To)}
		if l, ok := labels[key]; ok {
			labels[key] = fmt.Sprintf("%s,%d", l, e.Index)
		} else {
			labels[key] = fmt.Sprint(e.Index)
		}
		g.SetEdge(dotEdge{
			from:  g.Node(key[0]),
			to:    g.Node(key[1]),
			attrs: []encoding.Attribute{attr("label", labels[key])},
		})
	}

	return dot.Marshal(g, "graph", "", "  ")
}

// NetworkDOT draws the layout of m: a node per input and per neuron, one bias
// node per layer, and weight/bias edges coloured by value with the value as tooltip.
func NetworkDOT(m *nn.MLP) ([]byte, error) {
	g := dotGraph{simple.NewDirectedGraph()}
	var next int64
	newNode := func(attrs ...encoding.Attribute) dotNode {
		n := dotNode{id: next, attrs: attrs}
		next++
		g.AddNode(n)
		return n
	}

	inputs := make([]dotNode, m.Nin())
	for i := range inputs {
		inputs[i] = newNode(attr("label", fmt.Sprintf("x_%d", i)))
	}

	for _, layer := range m.Layers() {
		bias := newNode(attr("label", "bias"), attr("shape", "record"))
		outs := make([]dotNode, layer.Nout())
		for i, neuron := range layer.Neurons() {
			cell := newNode(attr("label", fmt.Sprintf("layer: %s | neuron: %d", layer.Label(), i)), attr("shape", "record"))
			outs[i] = cell

			b := neuron.Bias()
			g.SetEdge(dotEdge{from: bias, to: cell, attrs: []encoding.Attribute{
				attr("label", fmt.Sprintf("b_%d", i)),
				attr("color", WeightColor(b.Data())),
				attr("labeltooltip", b.String()),
			}})
			for j, w := range neuron.Weights() {
				g.SetEdge(dotEdge{from: inputs[j], to: cell, attrs: []encoding.Attribute{
					attr("label", fmt.Sprintf("w_%d_%d", j, i)),
					attr("color", WeightColor(w.Data())),
					attr("labeltooltip", w.String()),
				}})
			}
		}
		inputs = outs
	}

	return dot.Marshal(g, "network", "", "  ")
}
