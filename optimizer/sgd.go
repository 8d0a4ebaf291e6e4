package optimizer

import (
	"fmt"
	"math"

	"github.com/vempaliakhil96/nanograd/autograd"
)

// common method all optimizers must utilize
type Optimizer interface {
	Step() error
	ZeroGrad()
	Parameters() []*autograd.Value // return the parameters managed by the optimizer
}

// SGD : Stochastic Gradient Descent optimizer.
type SGD struct {
	learningRate float64
	parameters   []*autograd.Value
}

// creates a new SGD from a list of parameter leaves and a learning rate.
func NewSGD(parameters []*autograd.Value, learningRate float64) (*SGD, error) {
	if learningRate <= 0 {
		return nil, fmt.Errorf("optimizer: learning rate must be positive, got %f", learningRate)
	}
	if len(parameters) == 0 {
		return nil, fmt.Errorf("optimizer: created with empty parameters list")
	}

	validParams := make([]*autograd.Value, 0, len(parameters))
	for i, p := range parameters {
		if p == nil {
			return nil, fmt.Errorf("optimizer: parameter %d is nil", i)
		}
		if p.Op() != autograd.OpLeaf {
			return nil, fmt.Errorf("optimizer: parameter %d (id=%d, op=%s) is not a leaf", i, p.ID(), p.OpLabel())
		}
		validParams = append(validParams, p)
	}

	return &SGD{
		learningRate: learningRate,
		parameters:   validParams,
	}, nil
}

// step updates the parameters based on their gradients using the SGD rule:
// parameter = parameter - learning_rate * gradient
// a non-finite gradient stops the step; parameters before it are already updated.
func (s *SGD) Step() error {
	for _, p := range s.parameters {
		g := p.Grad()
		if math.IsNaN(g) || math.IsInf(g, 0) {
			return fmt.Errorf("optimizer: non-finite gradient %v for parameter %q (id=%d)", g, p.Label(), p.ID())
		}
		p.SetData(p.Data() - s.learningRate*g)
	}
	return nil
}

// sets all params managed by this to zero
func (s *SGD) ZeroGrad() {
	for _, p := range s.parameters {
		p.ZeroGrad()
	}
}

// returns the slice of params managed by this optimizer
func (s *SGD) Parameters() []*autograd.Value {
	return s.parameters
}

func (s *SGD) LearningRate() float64 {
	return s.learningRate
}
