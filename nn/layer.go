package nn

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/vempaliakhil96/nanograd/autograd"
)

var (
	// ErrShapeMismatch is returned when an input length does not match the expected width.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrInvalidShape is returned by constructors given non-positive sizes or no random source.
	ErrInvalidShape = errors.New("invalid shape")
	// ErrNilInput is returned when an input slice holds a nil value.
	ErrNilInput = errors.New("nil input")
)

// Module is the surface Neuron, Layer and MLP share with a training loop.
type Module interface {
	Parameters() []*autograd.Value
	ZeroGrad()
	// Backward runs the reverse pass from loss, which must be a scalar built
	// from this module's outputs.
	Backward(loss *autograd.Value)
}

func zeroGrad(m Module) {
	for _, p := range m.Parameters() {
		p.ZeroGrad()
	}
}

// Layer is a set of independent neurons reading the same inputs.
type Layer struct {
	neurons []*Neuron
	nin     int
	label   string
}

// NewLayer creates nout neurons of width nin, drawing their weights from rng in neuron order.
func NewLayer(nin, nout int, label string, rng *rand.Rand) (*Layer, error) {
	if nout <= 0 {
		return nil, fmt.Errorf("layer %q: %w: nout must be positive, got %d", label, ErrInvalidShape, nout)
	}

	neurons := make([]*Neuron, nout)
	for i := range neurons {
		n, err := NewNeuron(nin, rng)
		if err != nil {
			return nil, fmt.Errorf("layer %q: neuron %d: %w", label, i, err)
		}
		neurons[i] = n
	}
	return &Layer{neurons: neurons, nin: nin, label: label}, nil
}

// Forward feeds x to every neuron and returns their outputs in neuron order.
func (l *Layer) Forward(x []*autograd.Value) ([]*autograd.Value, error) {
	if len(x) != l.nin {
		return nil, fmt.Errorf("layer %q: %w: got %d inputs, want %d", l.label, ErrShapeMismatch, len(x), l.nin)
	}

	out := make([]*autograd.Value, len(l.neurons))
	for i, n := range l.neurons {
		v, err := n.Forward(x)
		if err != nil {
			return nil, fmt.Errorf("layer %q: neuron %d: %w", l.label, i, err)
		}
		out[i] = v
	}
	return out, nil
}

// ForwardFloats wraps raw inputs as leaves and calls Forward.
func (l *Layer) ForwardFloats(x []float64) ([]*autograd.Value, error) {
	return l.Forward(autograd.Leaves(x...))
}

func (l *Layer) Parameters() []*autograd.Value {
	params := make([]*autograd.Value, 0, len(l.neurons)*(l.nin+1))
	for _, n := range l.neurons {
		params = append(params, n.Parameters()...)
	}
	return params
}

func (l *Layer) ZeroGrad()                     { zeroGrad(l) }
func (l *Layer) Backward(loss *autograd.Value) { autograd.Backward(loss) }

func (l *Layer) Nin() int           { return l.nin }
func (l *Layer) Nout() int          { return len(l.neurons) }
func (l *Layer) Label() string      { return l.label }
func (l *Layer) Neurons() []*Neuron { return l.neurons }
