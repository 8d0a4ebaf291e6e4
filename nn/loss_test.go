package nn

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/vempaliakhil96/nanograd/autograd"
)

func TestSumSquaredError(t *testing.T) {
	preds := autograd.Leaves(0.5, -0.5, 1)
	targets := autograd.Leaves(1, -1, 1)

	loss, err := SumSquaredError(preds, targets)
	if err != nil {
		t.Fatalf("SumSquaredError error: %v", err)
	}
	if !scalar.EqualWithinAbs(loss.Data(), 0.5, 1e-12) {
		t.Fatalf("SumSquaredError = %v, want 0.5", loss.Data())
	}

	autograd.Backward(loss)
	// d/dp (p - t)^2 = 2(p - t)
	if want := []float64{-1, 1, 0}; !floats.EqualApprox(grads(preds), want, 1e-12) {
		t.Fatalf("pred grads = %v, want %v", grads(preds), want)
	}
}

func TestMeanSquaredError(t *testing.T) {
	loss, err := MeanSquaredError(autograd.Leaves(0, 2), autograd.Leaves(1, 1))
	if err != nil {
		t.Fatalf("MeanSquaredError error: %v", err)
	}
	if !scalar.EqualWithinAbs(loss.Data(), 1, 1e-12) {
		t.Fatalf("MeanSquaredError = %v, want 1", loss.Data())
	}
}

func TestLossShapeMismatch(t *testing.T) {
	if _, err := SumSquaredError(autograd.Leaves(1, 2), autograd.Leaves(1)); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("mismatched lengths error = %v, want ErrShapeMismatch", err)
	}
	if _, err := MeanSquaredError(nil, nil); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("empty error = %v, want ErrShapeMismatch", err)
	}
}
