package utility

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"

	"github.com/vempaliakhil96/nanograd/nn"
)

// provides utility functions to analyze and log details of a model.
type ModelInspector struct {
	model *nn.MLP
}

// creates a new inspector for the given MLP.
func NewModelInspector(model *nn.MLP) *ModelInspector {
	return &ModelInspector{model: model}
}

// prints a per-layer summary of the model to w
func (mi *ModelInspector) Summary(w io.Writer) error {
	fmt.Fprintln(w, "\n--- Model Summary ---")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Layer\tInputs\tNeurons\tActivation\tParam #")
	fmt.Fprintln(tw, "-----\t------\t-------\t----------\t-------")

	for _, layer := range mi.model.Layers() {
		fmt.Fprintf(tw, "%s\t%d\t%d\ttanh\t%d\n", layer.Label(), layer.Nin(), layer.Nout(), len(layer.Parameters()))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	total, weights, biases := mi.CountParameters()

	fmt.Fprintln(w, "----------------------------------")
	fmt.Fprintf(w, "Total Parameters: %d (weights %d, biases %d)\n", total, weights, biases)
	_, err := fmt.Fprintln(w, "----------------------------------")
	return err
}

// parameter counts for the model.
func (mi *ModelInspector) CountParameters() (total, weights, biases int) {
	for _, layer := range mi.model.Layers() {
		for _, n := range layer.Neurons() {
			weights += len(n.Weights())
			biases++
		}
	}
	return weights + biases, weights, biases
}

// GradientStats reports the largest and the mean absolute gradient over all
// parameters. Handy after a backward pass.
func (mi *ModelInspector) GradientStats() (maxAbs, meanAbs float64) {
	params := mi.model.Parameters()
	if len(params) == 0 {
		return 0, 0
	}
	abs := make([]float64, len(params))
	for i, p := range params {
		abs[i] = math.Abs(p.Grad())
	}
	return floats.Max(abs), floats.Sum(abs) / float64(len(abs))
}
