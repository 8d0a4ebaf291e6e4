package main

import (
	"math"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/vempaliakhil96/nanograd/autograd"
	"github.com/vempaliakhil96/nanograd/nn"
)

func TestSineDataset(t *testing.T) {
	d, err := sineDataset(5)
	if err != nil {
		t.Fatalf("sineDataset(5) error: %v", err)
	}
	if len(d.inputs) != 5 || len(d.targets) != 5 {
		t.Fatalf("sineDataset(5) has %d inputs, %d targets", len(d.inputs), len(d.targets))
	}
	if d.inputs[0][0] != -math.Pi || d.inputs[4][0] != math.Pi {
		t.Fatalf("sample range = [%v, %v], want [-pi, pi]", d.inputs[0][0], d.inputs[4][0])
	}
	if !scalar.EqualWithinAbs(d.targets[2], 0, 1e-12) {
		t.Fatalf("sin(0) sample = %v", d.targets[2])
	}
}

func TestSineDatasetTooFewSamples(t *testing.T) {
	for _, n := range []int{-1, 0, 1} {
		if _, err := sineDataset(n); err == nil {
			t.Errorf("sineDataset(%d) should fail", n)
		}
	}
}

func TestParseHidden(t *testing.T) {
	got, err := parseHidden("8, 4,")
	if err != nil || len(got) != 2 || got[0] != 8 || got[1] != 4 {
		t.Fatalf("parseHidden(\"8, 4,\") = %v, %v", got, err)
	}
	if _, err := parseHidden("8,x"); err == nil {
		t.Fatal("parseHidden(\"8,x\") should fail")
	}
}

func TestSaveLoadParameters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.gob")

	a, _ := nn.NewMLP(1, []int{3, 1}, rand.New(rand.NewSource(1)))
	b, _ := nn.NewMLP(1, []int{3, 1}, rand.New(rand.NewSource(2)))

	if err := saveParameters(path, a); err != nil {
		t.Fatalf("saveParameters error: %v", err)
	}
	if err := loadParameters(path, b); err != nil {
		t.Fatalf("loadParameters error: %v", err)
	}
	for i, p := range b.Parameters() {
		if p.Data() != a.Parameters()[i].Data() {
			t.Fatalf("parameter %d = %v, want %v", i, p.Data(), a.Parameters()[i].Data())
		}
	}

	c, _ := nn.NewMLP(1, []int{2, 1}, rand.New(rand.NewSource(3)))
	if err := loadParameters(path, c); err == nil {
		t.Fatal("loading into a different shape should fail")
	}
}

func TestTrainingReducesLoss(t *testing.T) {
	data, err := sineDataset(10)
	if err != nil {
		t.Fatalf("sineDataset(10) error: %v", err)
	}
	model, _ := nn.NewMLP(1, []int{6, 1}, rand.New(rand.NewSource(4)))

	loss := func() float64 {
		p, err := predictions(model, data)
		if err != nil {
			t.Fatalf("predictions error: %v", err)
		}
		var sum float64
		for i := range p {
			sum += (p[i] - data.targets[i]) * (p[i] - data.targets[i])
		}
		return sum / float64(len(p))
	}

	before := loss()
	for step := 0; step < 50; step++ {
		preds, _ := forward(model, data)
		l, err := nn.MeanSquaredError(preds, autograd.Leaves(data.targets...))
		if err != nil {
			t.Fatalf("loss error: %v", err)
		}
		model.ZeroGrad()
		model.Backward(l)
		for _, p := range model.Parameters() {
			p.SetData(p.Data() - 0.1*p.Grad())
		}
	}
	if after := loss(); after >= before {
		t.Fatalf("loss went from %v to %v", before, after)
	}
}

func TestBuildProgressBar(t *testing.T) {
	if got := buildProgressBar(0); len(got) != 50 || got[0] != '>' {
		t.Fatalf("buildProgressBar(0) = %q", got)
	}
	if got := buildProgressBar(100); got != strings.Repeat("=", 50) {
		t.Fatalf("buildProgressBar(100) = %q", got)
	}
}

