package nn

import (
	"fmt"

	"github.com/vempaliakhil96/nanograd/autograd"
)

// SumSquaredError builds sum((p - t)^2) over paired predictions and targets.
func SumSquaredError(preds, targets []*autograd.Value) (*autograd.Value, error) {
	if len(preds) == 0 {
		return nil, fmt.Errorf("sum_squared_error: %w: no predictions", ErrShapeMismatch)
	}
	if len(preds) != len(targets) {
		return nil, fmt.Errorf("sum_squared_error: %w: %d predictions, %d targets", ErrShapeMismatch, len(preds), len(targets))
	}

	var loss *autograd.Value
	for i, p := range preds {
		diff := p.Sub(targets[i])
		sq, err := diff.Pow(2)
		if err != nil {
			return nil, fmt.Errorf("sum_squared_error: %w", err)
		}
		if loss == nil {
			loss = sq
			continue
		}
		loss = loss.Add(sq)
	}
	return loss, nil
}

// MeanSquaredError is SumSquaredError scaled by 1/n.
func MeanSquaredError(preds, targets []*autograd.Value) (*autograd.Value, error) {
	sum, err := SumSquaredError(preds, targets)
	if err != nil {
		return nil, fmt.Errorf("mean_squared_error: %w", err)
	}
	return sum.MulScalar(1 / float64(len(preds))), nil
}
