package scene

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	eventPanelWidth = 300
	eventMaxEntries = 40
	eventLineHeight = 14
)

// Event is a single line in the on-screen event log.
type Event struct {
	Tick    int
	Source  string // "particles", "fuzzy", "scramble", "scene"
	Message string
}

// EventLog is a ring buffer of recent effect events.
type EventLog struct {
	entries []Event
	head    int
	count   int
}

// NewEventLog creates an event log with a fixed capacity.
func NewEventLog() *EventLog {
	return &EventLog{entries: make([]Event, eventMaxEntries)}
}

// Add appends an entry, overwriting the oldest when full.
func (el *EventLog) Add(tick int, source, msg string) {
	el.entries[el.head] = Event{Tick: tick, Source: source, Message: msg}
	el.head = (el.head + 1) % eventMaxEntries
	if el.count < eventMaxEntries {
		el.count++
	}
}

// Len returns the number of stored entries.
func (el *EventLog) Len() int { return el.count }

// Recent returns entries oldest first.
func (el *EventLog) Recent() []Event {
	out := make([]Event, el.count)
	for i := 0; i < el.count; i++ {
		idx := (el.head - el.count + i + eventMaxEntries) % eventMaxEntries
		out[i] = el.entries[idx]
	}
	return out
}

var sourceColors = map[string]color.RGBA{
	"particles": {R: 249, G: 115, B: 22, A: 255},
	"fuzzy":     {R: 240, G: 240, B: 240, A: 255},
	"scramble":  {R: 80, G: 200, B: 120, A: 255},
}

// Draw renders the panel with its top-right corner at (right, 0).
func (el *EventLog) Draw(screen *ebiten.Image, right, maxH int) {
	x := right - eventPanelWidth
	vector.FillRect(screen, float32(x), 0, eventPanelWidth, float32(maxH), color.RGBA{R: 8, G: 8, B: 10, A: 200}, false)
	vector.StrokeLine(screen, float32(x), 0, float32(x), float32(maxH), 1, color.RGBA{R: 60, G: 60, B: 70, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", x+8, 2)

	entries := el.Recent()
	maxVisible := (maxH - 24) / eventLineHeight
	if len(entries) > maxVisible && maxVisible > 0 {
		entries = entries[len(entries)-maxVisible:]
	}
	y := 20
	for _, e := range entries {
		dot, ok := sourceColors[e.Source]
		if !ok {
			dot = color.RGBA{R: 120, G: 120, B: 140, A: 255}
		}
		vector.FillRect(screen, float32(x+5), float32(y+4), 3, 6, dot, false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%5d %s", e.Tick, e.Message), x+12, y)
		y += eventLineHeight
	}
}
