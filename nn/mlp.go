package nn

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/vempaliakhil96/nanograd/autograd"
)

// MLP is a chain of fully connected layers. Every layer, the last one
// included, applies tanh, so outputs are confined to (-1, 1).
type MLP struct {
	layers []*Layer
}

// NewMLP creates layers of sizes [nin]+nouts, labelled "1".."k".
func NewMLP(nin int, nouts []int, rng *rand.Rand) (*MLP, error) {
	if len(nouts) == 0 {
		return nil, fmt.Errorf("mlp: %w: no layer sizes given", ErrInvalidShape)
	}

	sz := append([]int{nin}, nouts...)
	layers := make([]*Layer, len(nouts))
	for i := range nouts {
		l, err := NewLayer(sz[i], sz[i+1], strconv.Itoa(i+1), rng)
		if err != nil {
			return nil, fmt.Errorf("mlp: %w", err)
		}
		layers[i] = l
	}
	return &MLP{layers: layers}, nil
}

// Forward threads x through the layers and returns the last layer's outputs.
func (m *MLP) Forward(x []*autograd.Value) ([]*autograd.Value, error) {
	var err error
	for _, l := range m.layers {
		x, err = l.Forward(x)
		if err != nil {
			return nil, fmt.Errorf("mlp: %w", err)
		}
	}
	return x, nil
}

// ForwardFloats wraps raw inputs as leaves and calls Forward.
func (m *MLP) ForwardFloats(x []float64) ([]*autograd.Value, error) {
	return m.Forward(autograd.Leaves(x...))
}

// Parameters returns all layer parameters in layer order.
func (m *MLP) Parameters() []*autograd.Value {
	params := []*autograd.Value{}
	for _, l := range m.layers {
		params = append(params, l.Parameters()...)
	}
	return params
}

func (m *MLP) ZeroGrad() { zeroGrad(m) }

// Backward runs the reverse pass once from loss.
func (m *MLP) Backward(loss *autograd.Value) { autograd.Backward(loss) }

func (m *MLP) Layers() []*Layer { return m.layers }
func (m *MLP) Nin() int         { return m.layers[0].Nin() }
func (m *MLP) Nout() int        { return m.layers[len(m.layers)-1].Nout() }
