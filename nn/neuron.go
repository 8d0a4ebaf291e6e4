package nn

import (
	"fmt"
	"math/rand"

	"github.com/vempaliakhil96/nanograd/autograd"
)

// Neuron computes tanh(b + sum(w_i * x_i)).
type Neuron struct {
	w []*autograd.Value
	b *autograd.Value
}

// NewNeuron creates a neuron with nin weights and a bias, all uniform in [-1, 1).
// Weights are drawn from rng first, then the bias, so equal seeds give equal neurons.
func NewNeuron(nin int, rng *rand.Rand) (*Neuron, error) {
	if nin <= 0 {
		return nil, fmt.Errorf("neuron: %w: nin must be positive, got %d", ErrInvalidShape, nin)
	}
	if rng == nil {
		return nil, fmt.Errorf("neuron: %w: nil random source", ErrInvalidShape)
	}

	w := make([]*autograd.Value, nin)
	for i := range w {
		w[i] = autograd.NewLabeledValue(2*rng.Float64()-1, fmt.Sprintf("w%d", i))
	}
	b := autograd.NewLabeledValue(2*rng.Float64()-1, "b")

	return &Neuron{w: w, b: b}, nil
}

// Forward builds the neuron's graph for x. Nothing is built when the width
// is wrong or an input is nil.
func (n *Neuron) Forward(x []*autograd.Value) (*autograd.Value, error) {
	if len(x) != len(n.w) {
		return nil, fmt.Errorf("neuron: %w: got %d inputs, want %d", ErrShapeMismatch, len(x), len(n.w))
	}
	for i, xi := range x {
		if xi == nil {
			return nil, fmt.Errorf("neuron: %w at position %d", ErrNilInput, i)
		}
	}

	act := n.b
	for i, wi := range n.w {
		act = act.Add(wi.Mul(x[i]))
	}
	return act.Tanh(), nil
}

// ForwardFloats wraps raw inputs as leaves and calls Forward.
func (n *Neuron) ForwardFloats(x []float64) (*autograd.Value, error) {
	return n.Forward(autograd.Leaves(x...))
}

// Parameters returns the weights followed by the bias.
func (n *Neuron) Parameters() []*autograd.Value {
	params := make([]*autograd.Value, len(n.w)+1)
	copy(params, n.w)
	params[len(n.w)] = n.b
	return params
}

func (n *Neuron) ZeroGrad()                     { zeroGrad(n) }
func (n *Neuron) Backward(loss *autograd.Value) { autograd.Backward(loss) }

func (n *Neuron) Nin() int                   { return len(n.w) }
func (n *Neuron) Weights() []*autograd.Value { return n.w }
func (n *Neuron) Bias() *autograd.Value      { return n.b }
