package main

import (
	"encoding/gob"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/vempaliakhil96/nanograd/autograd"
	"github.com/vempaliakhil96/nanograd/nn"
	"github.com/vempaliakhil96/nanograd/optimizer"
	"github.com/vempaliakhil96/nanograd/utility"
)

const (
	defaultEpochs       = 300
	defaultLearningRate = 0.05
	defaultHidden       = "8,8"
	defaultSamples      = 25
)

// the four-sample dataset from the original micrograd walkthrough
var (
	toyInputs  = [][]float64{{2, 3, -1}, {3, -1, 0.5}, {0.5, 1, 1}, {1, 1, -1}}
	toyTargets = []float64{1, -1, -1, 1}
)

type dataset struct {
	inputs  [][]float64
	targets []float64
}

// sineDataset samples sin(x) at n evenly spaced points on [-pi, pi].
// It needs at least two points to span the interval.
func sineDataset(n int) (dataset, error) {
	if n < 2 {
		return dataset{}, fmt.Errorf("sine dataset needs at least 2 samples, got %d", n)
	}
	xs := make([]float64, n)
	floats.Span(xs, -math.Pi, math.Pi)
	d := dataset{inputs: make([][]float64, n), targets: make([]float64, n)}
	for i, x := range xs {
		d.inputs[i] = []float64{x}
		d.targets[i] = math.Sin(x)
	}
	return d, nil
}

func parseHidden(s string) ([]int, error) {
	var sizes []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid layer size %q: %w", f, err)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

// forward runs every sample through the model and returns the first output of each.
func forward(model *nn.MLP, d dataset) ([]*autograd.Value, error) {
	preds := make([]*autograd.Value, len(d.inputs))
	for i, x := range d.inputs {
		out, err := model.ForwardFloats(x)
		if err != nil {
			return nil, err
		}
		preds[i] = out[0]
	}
	return preds, nil
}

func predictions(model *nn.MLP, d dataset) ([]float64, error) {
	preds, err := forward(model, d)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(preds))
	for i, p := range preds {
		out[i] = p.Data()
	}
	return out, nil
}

// saveParameters writes the parameter data in Parameters() order.
func saveParameters(path string, model nn.Module) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	params := model.Parameters()
	data := make([]float64, len(params))
	for i, p := range params {
		data[i] = p.Data()
	}
	return gob.NewEncoder(file).Encode(data)
}

func loadParameters(path string, model nn.Module) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var data []float64
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return err
	}
	params := model.Parameters()
	if len(data) != len(params) {
		return fmt.Errorf("parameter count mismatch: saved %d, model %d", len(data), len(params))
	}
	for i, p := range params {
		p.SetData(data[i])
	}
	return nil
}

func main() {
	epochs := flag.Int("epochs", defaultEpochs, "number of full-batch training steps")
	learningRate := flag.Float64("lr", defaultLearningRate, "SGD learning rate")
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for weight initialisation")
	hidden := flag.String("hidden", defaultHidden, "comma separated hidden layer sizes")
	datasetName := flag.String("dataset", "sine", "sine or toy")
	samples := flag.Int("samples", defaultSamples, "number of sine samples")
	dashboard := flag.Bool("dashboard", false, "show the terminal dashboard")
	dotPath := flag.String("dot", "", "write the trained network layout as DOT to this file")
	savePath := flag.String("save", "", "save trained parameters (gob) to this file and reload them")
	flag.Parse()

	// -- Data --
	var (
		data dataset
		err  error
	)
	switch *datasetName {
	case "sine":
		data, err = sineDataset(*samples)
		if err != nil {
			log.Fatalf("Invalid -samples: %v", err)
		}
	case "toy":
		data = dataset{inputs: toyInputs, targets: toyTargets}
	default:
		log.Fatalf("unknown dataset %q", *datasetName)
	}
	targets := autograd.Leaves(data.targets...)

	// -- Model and Optimizer --
	sizes, err := parseHidden(*hidden)
	if err != nil {
		log.Fatalf("Failed to parse -hidden: %v", err)
	}
	sizes = append(sizes, 1)
	nin := len(data.inputs[0])

	rng := rand.New(rand.NewSource(*seed))
	model, err := nn.NewMLP(nin, sizes, rng)
	if err != nil {
		log.Fatalf("Failed to create model: %v", err)
	}
	sgd, err := optimizer.NewSGD(model.Parameters(), *learningRate)
	if err != nil {
		log.Fatalf("Failed to create optimizer: %v", err)
	}

	inspector := utility.NewModelInspector(model)
	shape := fmt.Sprintf("%d-%s-1", nin, strings.ReplaceAll(*hidden, ",", "-"))

	var dash *utility.TrainingDashboard
	if *dashboard {
		dash, err = utility.NewTrainingDashboard(*learningRate, *epochs, shape)
		if err != nil {
			log.Fatalf("Failed to start dashboard: %v", err)
		}
		defer dash.Close()
		dash.Log(fmt.Sprintf("training %s on %d samples (seed %d)", shape, len(data.inputs), *seed))
	} else {
		if err := inspector.Summary(os.Stdout); err != nil {
			log.Fatalf("Failed to print summary: %v", err)
		}
		fmt.Println("\n--- Starting Training ---")
	}

	// -- Training Loop --
	startTime := time.Now()
	var lastLoss float64
	for epoch := 0; epoch < *epochs; epoch++ {
		preds, err := forward(model, data)
		if err != nil {
			log.Fatalf("Epoch %d: forward pass failed: %v", epoch, err)
		}
		loss, err := nn.MeanSquaredError(preds, targets)
		if err != nil {
			log.Fatalf("Epoch %d: loss calculation failed: %v", epoch, err)
		}
		lastLoss = loss.Data()

		model.ZeroGrad()
		model.Backward(loss)
		if err := sgd.Step(); err != nil {
			log.Fatalf("Epoch %d: optimizer step failed: %v", epoch, err)
		}

		// --- Logging ---
		if dash != nil {
			dash.RecordEpoch(epoch+1, *epochs, lastLoss, startTime)
			if epoch%10 == 0 || epoch == *epochs-1 {
				predicted := make([]float64, len(preds))
				for i, p := range preds {
					predicted[i] = p.Data()
				}
				dash.SetPredictions(data.targets, predicted)
			}
			continue
		}
		percentComplete := float64(epoch+1) / float64(*epochs) * 100
		fmt.Printf("\rEpoch %d/%d [%-50s] %3.0f%% - Loss: %.6f",
			epoch+1,
			*epochs,
			buildProgressBar(percentComplete),
			percentComplete,
			lastLoss)
	}

	maxGrad, meanGrad := inspector.GradientStats()
	summary := fmt.Sprintf("done in %v: loss %.6f, max |grad| %.2e, mean |grad| %.2e",
		time.Since(startTime).Round(time.Millisecond), lastLoss, maxGrad, meanGrad)

	if *dotPath != "" {
		out, err := utility.NetworkDOT(model)
		if err != nil {
			log.Fatalf("Failed to render network: %v", err)
		}
		if err := os.WriteFile(*dotPath, out, 0o644); err != nil {
			log.Fatalf("Failed to write %s: %v", *dotPath, err)
		}
	}

	if dash != nil {
		dash.Log(summary + " - press q to quit")
		dash.Wait()
		return
	}

	fmt.Println()
	fmt.Println(summary)

	fmt.Println("\nPredictions:")
	final, err := predictions(model, data)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
	for i, x := range data.inputs {
		fmt.Printf("  x=%v target=% .4f predicted=% .4f\n", x, data.targets[i], final[i])
	}

	// -- Save and reload --
	if *savePath == "" {
		return
	}
	fmt.Printf("\nSaving trained parameters to %s...\n", *savePath)
	if err := saveParameters(*savePath, model); err != nil {
		log.Fatalf("Error saving model: %v", err)
	}

	// any seed works, the loaded data overwrites the initial weights
	reloaded, err := nn.NewMLP(nin, sizes, rand.New(rand.NewSource(0)))
	if err != nil {
		log.Fatalf("Error creating model for loading: %v", err)
	}
	if err := loadParameters(*savePath, reloaded); err != nil {
		log.Fatalf("Error loading model: %v", err)
	}
	again, err := predictions(reloaded, data)
	if err != nil {
		log.Fatalf("Evaluation of loaded model failed: %v", err)
	}
	fmt.Printf("Loaded model matches trained model: %v\n", floats.Equal(final, again))
}

// buildProgressBar is a helper function to create the visual progress bar string.
func buildProgressBar(percent float64) string {
	barWidth := 50
	progress := int(percent / 100.0 * float64(barWidth))

	bar := strings.Repeat("=", progress)
	if progress < barWidth {
		bar += ">"
	}
	for i := progress + 1; i < barWidth; i++ {
		bar += " "
	}
	return bar
}
