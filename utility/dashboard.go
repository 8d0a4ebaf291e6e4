package utility

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
)

// TrainingDashboard shows an MLP fit in the terminal: the loss history, the
// target curve against the model's predictions, progress and an event line.
type TrainingDashboard struct {
	grid *ui.Grid

	lossPlot *widgets.Plot
	fitPlot  *widgets.Plot

	epochGauge *widgets.Gauge
	statusList *widgets.List
	timingList *widgets.List
	events     *widgets.Paragraph

	losses []float64
	mu     sync.Mutex
}

// NewTrainingDashboard takes over the terminal. Callers must Close it.
func NewTrainingDashboard(learningRate float64, epochs int, shape string) (*TrainingDashboard, error) {
	if err := ui.Init(); err != nil {
		return nil, fmt.Errorf("dashboard: init terminal: %w", err)
	}

	// termui needs two points before a plot can be drawn
	d := &TrainingDashboard{losses: []float64{0, 0}}

	d.lossPlot = widgets.NewPlot()
	d.lossPlot.Title = "Loss"
	d.lossPlot.Data = [][]float64{d.losses}
	d.lossPlot.LineColors[0] = ui.ColorRed

	d.fitPlot = widgets.NewPlot()
	d.fitPlot.Title = "Target (blue) / Prediction (yellow)"
	d.fitPlot.Data = [][]float64{{0, 0}, {0, 0}}
	d.fitPlot.LineColors = []ui.Color{ui.ColorBlue, ui.ColorYellow}

	d.epochGauge = widgets.NewGauge()
	d.epochGauge.Title = "Epochs"
	d.epochGauge.BarColor = ui.ColorBlue

	d.statusList = widgets.NewList()
	d.statusList.Title = "Status"
	d.timingList = widgets.NewList()
	d.timingList.Title = "Timing"

	config := widgets.NewList()
	config.Title = "Network"
	config.Rows = []string{
		fmt.Sprintf("Shape: %s (tanh)", shape),
		fmt.Sprintf("SGD lr: %.4f", learningRate),
		fmt.Sprintf("Epochs: %d", epochs),
	}

	d.events = widgets.NewParagraph()
	d.events.Title = "Events"

	d.grid = ui.NewGrid()
	w, h := ui.TerminalDimensions()
	d.grid.SetRect(0, 0, w, h)
	d.grid.Set(
		ui.NewRow(0.45, ui.NewCol(0.5, d.lossPlot), ui.NewCol(0.5, d.fitPlot)),
		ui.NewRow(0.3, ui.NewCol(0.34, d.statusList), ui.NewCol(0.33, d.timingList), ui.NewCol(0.33, config)),
		ui.NewRow(0.25, ui.NewCol(1.0, ui.NewRow(0.4, d.epochGauge), ui.NewRow(0.6, d.events))),
	)

	return d, nil
}

// downsample averages data into width bins so a long series fits its plot.
// Series already narrower than width are returned as is.
func downsample(data []float64, width int) []float64 {
	if width <= 0 || len(data) <= width {
		return data
	}

	out := make([]float64, width)
	bin := float64(len(data)) / float64(width)
	for i := range out {
		lo, hi := int(float64(i)*bin), int(float64(i+1)*bin)
		if hi > len(data) {
			hi = len(data)
		}
		if lo >= hi {
			if i > 0 {
				out[i] = out[i-1]
			}
			continue
		}
		var sum float64
		for _, v := range data[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

// RecordEpoch appends the epoch's loss and redraws status, timing and the loss plot.
func (d *TrainingDashboard) RecordEpoch(epoch, totalEpochs int, loss float64, started time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.losses = append(d.losses, loss)

	d.statusList.Rows = []string{
		fmt.Sprintf("Epoch: %d / %d", epoch, totalEpochs),
		fmt.Sprintf("Loss: %.6f", loss),
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	elapsed := time.Since(started)
	var remaining time.Duration
	if epoch > 0 {
		remaining = elapsed / time.Duration(epoch) * time.Duration(totalEpochs-epoch)
	}
	d.timingList.Rows = []string{
		fmt.Sprintf("Elapsed: %v", elapsed.Round(time.Millisecond)),
		fmt.Sprintf("Remaining: %v", remaining.Round(time.Millisecond)),
		fmt.Sprintf("Heap: %d MiB", mem.Alloc/1024/1024),
	}
	d.epochGauge.Percent = epoch * 100 / totalEpochs
	d.lossPlot.Data[0] = downsample(d.losses, d.lossPlot.Inner.Dx())

	ui.Render(d.grid)
}

// SetPredictions redraws the target curve against the current predictions.
// Series shorter than two points are ignored.
func (d *TrainingDashboard) SetPredictions(target, predicted []float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(target) < 2 || len(predicted) < 2 {
		return
	}
	width := d.fitPlot.Inner.Dx()
	d.fitPlot.Data = [][]float64{downsample(target, width), downsample(predicted, width)}
	ui.Render(d.grid)
}

// Log replaces the event line.
func (d *TrainingDashboard) Log(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events.Text = message
	ui.Render(d.grid)
}

func (d *TrainingDashboard) Close() { ui.Close() }

// Wait blocks until q or Ctrl-C is pressed.
func (d *TrainingDashboard) Wait() {
	for e := range ui.PollEvents() {
		if e.ID == "q" || e.ID == "<C-c>" {
			return
		}
	}
}
