package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/vempaliakhil96/nanograd/autograd"
	"github.com/vempaliakhil96/nanograd/nn"
	"github.com/vempaliakhil96/nanograd/optimizer"
)

// bench params
const (
	defaultIterations = 100
	defaultSeed       = 42
	stepLearningRate  = 0.01
)

// network shapes timed by default: nin followed by layer sizes
var shapes = [][]int{
	{3, 4, 4, 1},
	{8, 16, 16, 1},
	{16, 32, 32, 4},
}

func generateRandomData(rng *rand.Rand, size int) []float64 {
	data := make([]float64, size)
	for i := range data {
		data[i] = rng.Float64()*2 - 1
	}
	return data
}

// timings holds per-iteration durations in milliseconds.
type timings struct {
	forward, backward, step []float64
}

// benchmarkMLP times forward, backward and a full SGD step (zero grad,
// forward, backward, optimizer step) for one network shape.
func benchmarkMLP(rng *rand.Rand, shape []int, iterations int) (timings, error) {
	model, err := nn.NewMLP(shape[0], shape[1:], rng)
	if err != nil {
		return timings{}, err
	}
	sgd, err := optimizer.NewSGD(model.Parameters(), stepLearningRate)
	if err != nil {
		return timings{}, err
	}
	input := generateRandomData(rng, shape[0])

	var t timings
	for i := 0; i < iterations; i++ {
		start := time.Now()
		out, err := model.ForwardFloats(input)
		if err != nil {
			return timings{}, err
		}
		t.forward = append(t.forward, ms(time.Since(start)))

		loss := out[0]
		for _, o := range out[1:] {
			loss = loss.Add(o)
		}

		start = time.Now()
		model.Backward(loss)
		t.backward = append(t.backward, ms(time.Since(start)))
		model.ZeroGrad()

		start = time.Now()
		sgd.ZeroGrad()
		out, err = model.ForwardFloats(input)
		if err != nil {
			return timings{}, err
		}
		model.Backward(out[0])
		if err := sgd.Step(); err != nil {
			return timings{}, err
		}
		t.step = append(t.step, ms(time.Since(start)))
	}
	return t, nil
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func report(name string, samples []float64) {
	mean, std := stat.MeanStdDev(samples, nil)
	fmt.Printf("  %-10s %8.4f ms ± %.4f\n", name, mean, std)
}

func main() {
	iterations := flag.Int("iterations", defaultIterations, "iterations per benchmark")
	seed := flag.Int64("seed", defaultSeed, "seed for weights and inputs")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	fmt.Println("--- nanograd Benchmarks ---")
	fmt.Printf("Iterations per benchmark: %d\n\n", *iterations)

	for _, shape := range shapes {
		model, err := nn.NewMLP(shape[0], shape[1:], rand.New(rand.NewSource(*seed)))
		if err != nil {
			log.Fatalf("invalid shape %v: %v", shape, err)
		}
		out, err := model.ForwardFloats(generateRandomData(rng, shape[0]))
		if err != nil {
			log.Fatalf("forward %v failed: %v", shape, err)
		}
		nodes := len(autograd.TopoOrder(out[0]))

		fmt.Printf("--- MLP %v: %d parameters, %d graph nodes per output ---\n", shape, len(model.Parameters()), nodes)
		t, err := benchmarkMLP(rng, shape, *iterations)
		if err != nil {
			log.Fatalf("benchmark %v failed: %v", shape, err)
		}
		report("forward", t.forward)
		report("backward", t.backward)
		report("step", t.step)
		fmt.Println()
	}

	fmt.Println("--- Benchmarks Complete ---")
}
