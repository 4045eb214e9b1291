package export

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/chesedcore/evesses/pkg/event"
)

// TimelineOptions configures SVG timeline export.
type TimelineOptions struct {
	Width      int    // Canvas width in pixels
	LaneHeight int    // Vertical space per event layer (default: 70)
	Margin     int    // Canvas margin in pixels (default: 60)
	NodeRadius int    // Radius of event markers (default: 10)
	ShowLabels bool   // Show event timing names
	ShowScopes bool   // Show the scope snapshot under each label
	Title      string // Optional title
}

// DefaultTimelineOptions returns sensible default timeline options.
func DefaultTimelineOptions() TimelineOptions {
	return TimelineOptions{
		Width:      1200,
		LaneHeight: 70,
		Margin:     60,
		NodeRadius: 10,
		ShowLabels: true,
		ShowScopes: true,
		Title:      "Chain Timeline",
	}
}

// ExportTimeline renders a committed history as an SVG timeline: one
// horizontal lane per event layer, events placed left-to-right by
// timestamp, negation markers highlighted.
func ExportTimeline(history []*event.TimingEvent, opts TimelineOptions) ([]byte, error) {
	// Validate options
	if opts.Width <= 0 {
		opts.Width = 1200
	}
	if opts.LaneHeight <= 0 {
		opts.LaneHeight = 70
	}
	if opts.Margin <= 0 {
		opts.Margin = 60
	}
	if opts.NodeRadius <= 0 {
		opts.NodeRadius = 10
	}

	lanes := laneLayers(history)
	height := 2*opts.Margin + len(lanes)*opts.LaneHeight
	if opts.Title != "" {
		height += 40
	}
	if height < 200 {
		height = 200
	}

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, height)

	canvas.Rect(0, 0, opts.Width, height, "fill:#1a1a2e")

	headerY := 30
	if opts.Title != "" {
		canvas.Text(opts.Width/2, headerY, opts.Title,
			"text-anchor:middle;font-size:20px;font-weight:bold;fill:#e2e8f0;font-family:sans-serif")
		headerY += 40
	}

	drawLanes(canvas, lanes, headerY, opts)
	drawEvents(canvas, history, lanes, headerY, opts)

	canvas.End()
	return buf.Bytes(), nil
}

// SaveTimelineToFile renders the timeline and saves it to a file.
// The file is created with 0644 permissions.
func SaveTimelineToFile(history []*event.TimingEvent, filepath string, opts TimelineOptions) error {
	data, err := ExportTimeline(history, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

// laneLayers returns the distinct event layers in ascending order.
func laneLayers(history []*event.TimingEvent) []int {
	seen := make(map[int]bool)
	for _, ev := range history {
		seen[ev.Layer] = true
	}
	layers := make([]int, 0, len(seen))
	for layer := range seen {
		layers = append(layers, layer)
	}
	sort.Ints(layers)
	return layers
}

// drawLanes renders one horizontal band per layer with its label.
func drawLanes(canvas *svg.SVG, lanes []int, top int, opts TimelineOptions) {
	for i, layer := range lanes {
		y := top + i*opts.LaneHeight
		canvas.Line(opts.Margin, y+opts.LaneHeight/2, opts.Width-opts.Margin, y+opts.LaneHeight/2,
			"stroke:#2d3748;stroke-width:1")
		canvas.Text(opts.Margin-10, y+opts.LaneHeight/2+4, fmt.Sprintf("L%d", layer),
			"text-anchor:end;font-size:12px;font-family:monospace;fill:#718096")
	}
}

// drawEvents places event markers along their lane by timestamp.
func drawEvents(canvas *svg.SVG, history []*event.TimingEvent, lanes []int, top int, opts TimelineOptions) {
	if len(history) == 0 {
		canvas.Text(opts.Width/2, top+40, "(empty history)",
			"text-anchor:middle;font-size:13px;fill:#718096;font-family:monospace")
		return
	}

	laneIndex := make(map[int]int, len(lanes))
	for i, layer := range lanes {
		laneIndex[layer] = i
	}

	span := float64(opts.Width - 2*opts.Margin - 2*opts.NodeRadius)
	step := span
	if len(history) > 1 {
		step = span / float64(len(history)-1)
	}

	for i, ev := range history {
		x := opts.Margin + opts.NodeRadius
		if len(history) > 1 {
			x += int(float64(i) * step)
		}
		y := top + laneIndex[ev.Layer]*opts.LaneHeight + opts.LaneHeight/2

		color := "#4299e1"
		if ev.Timing == "effect_negated" {
			color = "#f56565"
		}

		canvas.Circle(x, y, opts.NodeRadius,
			fmt.Sprintf("fill:%s;stroke:#fff;stroke-width:2;opacity:0.9", color))
		canvas.Text(x, y+4, fmt.Sprintf("%d", ev.Timestamp),
			"text-anchor:middle;font-size:9px;font-weight:bold;fill:#1a1a2e")

		if opts.ShowLabels {
			canvas.Text(x, y-opts.NodeRadius-8, ev.Timing,
				"text-anchor:middle;font-size:11px;font-family:monospace;fill:#e2e8f0")
		}

		if opts.ShowScopes && len(ev.Scopes) > 0 {
			canvas.Text(x, y+opts.NodeRadius+14, scopeLabel(ev.Scopes),
				"text-anchor:middle;font-size:9px;font-family:monospace;fill:#a0aec0")
		}
	}
}

// scopeLabel formats a scope snapshot as "turn/main_phase".
func scopeLabel(scopes event.ScopeStack) string {
	var buf bytes.Buffer
	for i, s := range scopes {
		if i > 0 {
			buf.WriteByte('/')
		}
		buf.WriteString(s.Name)
	}
	return buf.String()
}
