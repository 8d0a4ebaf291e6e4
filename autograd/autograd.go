package autograd

import "math"

// Backward performs the backward pass starting from root.
// it seeds root's gradient with 1 and adds every node's contribution into its
// operands, walking a topological order of the graph in reverse so that all
// consumers of a node are done before the node passes its own gradient on.
//
// gradients accumulate: calling Backward twice on overlapping graphs without
// zeroing in between sums both passes.
func Backward(root *Value) {
	if root == nil {
		return
	}

	topo := TopoOrder(root)

	root.grad = 1
	for i := len(topo) - 1; i >= 0; i-- {
		node := topo[i]
		for j, operand := range node.operands {
			operand.grad += localGrad(node, j) * node.grad
		}
	}
}

// localGrad is d(node)/d(node.operands[j]).
func localGrad(node *Value, j int) float64 {
	switch node.op {
	case OpAdd:
		return 1
	case OpMul:
		return node.operands[1-j].data
	case OpNeg:
		return -1
	case OpPow:
		k := node.exponent
		return k * math.Pow(node.operands[0].data, k-1)
	case OpTanh:
		return 1 - node.data*node.data
	}
	return 0
}

// TopoOrder returns every node reachable from root with each node placed after
// all of its operands. Operands are visited in construction order, so the
// result is the same for the same graph.
func TopoOrder(root *Value) []*Value {
	if root == nil {
		return nil
	}

	visited := make(map[*Value]bool)
	var topo []*Value

	var dfs func(*Value)
	dfs = func(v *Value) {
		if visited[v] {
			return
		}
		visited[v] = true
		for _, operand := range v.operands {
			dfs(operand)
		}
		topo = append(topo, v)
	}

	dfs(root)
	return topo
}

// ZeroGraph resets the gradient of every node reachable from root.
func ZeroGraph(root *Value) {
	for _, v := range TopoOrder(root) {
		v.grad = 0
	}
}

// Edge links an operand to the node consuming it. Index is the operand position.
type Edge struct {
	From  *Value
	To    *Value
	Index int
}

// Trace lists the nodes reachable from root in topological order together
// with every operand edge, for rendering the graph.
func Trace(root *Value) ([]*Value, []Edge) {
	nodes := TopoOrder(root)
	var edges []Edge
	for _, n := range nodes {
		for i, operand := range n.operands {
			edges = append(edges, Edge{From: operand, To: n, Index: i})
		}
	}
	return nodes, edges
}
