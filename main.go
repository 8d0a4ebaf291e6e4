package main

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"

	"github.com/vempaliakhil96/nanograd/autograd"
	"github.com/vempaliakhil96/nanograd/nn"
	"github.com/vempaliakhil96/nanograd/utility"
)

func printValues(vs ...*autograd.Value) {
	for _, v := range vs {
		fmt.Printf("  %s\n", v)
	}
}

func main() {
	fmt.Println("--> expression graph")

	// 1. Leaves and builders
	a := autograd.NewLabeledValue(2, "a")
	b := autograd.NewLabeledValue(-3, "b")
	c := autograd.NewLabeledValue(10, "c")
	e := a.Mul(b)
	e.SetLabel("e")
	d := e.Add(c)
	d.SetLabel("d")
	f := autograd.NewLabeledValue(-2, "f")
	L := d.Mul(f)
	L.SetLabel("L")
	fmt.Printf("L = (a*b + c) * f = %.4f\n", L.Data())

	// 2. Backward
	autograd.Backward(L)
	fmt.Println("Gradients after backward:")
	printValues(a, b, c, e, d, f, L)

	// 3. Graph for rendering
	dotOut, err := utility.GraphDOT(L)
	if err != nil {
		log.Fatalf("Error rendering graph: %v", err)
	}
	fmt.Printf("\nDOT for L:\n%s\n", dotOut)

	// 4. Shared operand
	fmt.Println("--> shared operand")
	x := autograd.NewLabeledValue(3, "x")
	y := x.Mul(x)
	autograd.Backward(y)
	fmt.Printf("y = x*x at x=3: dy/dx = %.4f\n\n", x.Grad())

	// 5. Subtraction, division and powers are compositions
	p := autograd.NewLabeledValue(4, "p")
	q := autograd.NewLabeledValue(2, "q")
	cube, err := q.Pow(3)
	if err != nil {
		log.Fatalf("Error in Pow: %v", err)
	}
	r := p.Sub(q).Div(cube)
	autograd.Backward(r)
	fmt.Printf("(p - q) / q**3 = %.4f\n", r.Data())
	printValues(p, q)
	if _, err := q.Pow(math.Inf(1)); err != nil {
		fmt.Printf("Pow with an infinite exponent: %v\n", err)
	}
	fmt.Println()

	// -------------------- Neuron section -------------------- //

	fmt.Println("--> neuron")
	rng := rand.New(rand.NewSource(1337))
	n, err := nn.NewNeuron(3, rng)
	if err != nil {
		log.Fatalf("Error creating neuron: %v", err)
	}
	fmt.Println("Neuron parameters:")
	printValues(n.Parameters()...)

	if _, err := n.ForwardFloats([]float64{1, 2}); err != nil {
		fmt.Printf("Forward with 2 inputs: %v\n", err)
	}
	out, err := n.ForwardFloats([]float64{1, 2, 3})
	if err != nil {
		log.Fatalf("Error in neuron forward: %v", err)
	}
	fmt.Printf("Forward([1 2 3]) = %.4f\n", out.Data())

	n.Backward(out)
	fmt.Println("Gradients after backward:")
	printValues(n.Parameters()...)

	n.ZeroGrad()
	fmt.Println("Gradients after ZeroGrad:")
	printValues(n.Parameters()...)

	// -------------------- MLP section -------------------- //

	fmt.Println("\n--> mlp")
	m, err := nn.NewMLP(3, []int{4, 4, 1}, rng)
	if err != nil {
		log.Fatalf("Error creating MLP: %v", err)
	}
	if err := utility.NewModelInspector(m).Summary(os.Stdout); err != nil {
		log.Fatalf("Error printing summary: %v", err)
	}
	outs, err := m.ForwardFloats([]float64{2, 3, -1})
	if err != nil {
		log.Fatalf("Error in MLP forward: %v", err)
	}
	fmt.Printf("MLP([2 3 -1]) = %.4f, graph holds %d nodes\n", outs[0].Data(), len(autograd.TopoOrder(outs[0])))

	fmt.Println("\n--- done ---")
}
