package nn

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestLayer(t *testing.T) {
	l, err := NewLayer(3, 2, "hidden", newRand(5))
	if err != nil {
		t.Fatalf("NewLayer(3, 2) error: %v", err)
	}
	if l.Nin() != 3 || l.Nout() != 2 || l.Label() != "hidden" || len(l.Neurons()) != 2 {
		t.Fatalf("NewLayer(3, 2) = nin %d nout %d label %q", l.Nin(), l.Nout(), l.Label())
	}

	params := l.Parameters()
	if len(params) != 8 {
		t.Fatalf("Parameters() has %d values, want 8", len(params))
	}
	if params[3] != l.Neurons()[0].Bias() || params[4] != l.Neurons()[1].Weights()[0] {
		t.Fatal("Parameters() not in neuron order")
	}

	x := []float64{0.3, 0.2, -0.7}
	out, err := l.ForwardFloats(x)
	if err != nil {
		t.Fatalf("Forward error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("Forward returned %d outputs, want 2", len(out))
	}
	for i, n := range l.Neurons() {
		want, _ := n.ForwardFloats(x)
		if out[i].Data() != want.Data() {
			t.Errorf("output %d = %v, want %v", i, out[i].Data(), want.Data())
		}
	}

	if _, err := l.ForwardFloats([]float64{1}); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("Forward([1]) error = %v, want ErrShapeMismatch", err)
	}
}

func TestLayerInvalid(t *testing.T) {
	if _, err := NewLayer(3, 0, "", newRand(1)); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("NewLayer(3, 0) error = %v, want ErrInvalidShape", err)
	}
	if _, err := NewLayer(-1, 2, "", newRand(1)); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("NewLayer(-1, 2) error = %v, want ErrInvalidShape", err)
	}
}

func TestLayerGradients(t *testing.T) {
	l, _ := NewLayer(2, 3, "", newRand(6))
	x := []float64{0.4, -0.9}

	sum := func() float64 {
		out, _ := l.ForwardFloats(x)
		return out[0].Data() + out[1].Data() + out[2].Data()
	}

	out, _ := l.ForwardFloats(x)
	l.Backward(out[0].Add(out[1]).Add(out[2]))

	want := numericGrads(l.Parameters(), sum)
	if got := grads(l.Parameters()); !floats.EqualApprox(got, want, 1e-4) {
		t.Fatalf("layer grads = %v, want %v", got, want)
	}
}
