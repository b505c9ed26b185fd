package picker

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"gocv.io/x/gocv"
)

// Mouse event codes as delivered by OpenCV's highgui callback
const (
	mouseMove     = 0
	mouseLeftDown = 1
	mouseLeftUp   = 4
)

const (
	// Border pixels shaved off each side of a crop so the selection's own
	// drawn outline never ends up in the sample
	cropInset = 3

	selectionThickness = 2
)

var (
	previewColor = color.RGBA{G: 255}         // live drag rectangle
	markerColor  = color.RGBA{R: 255, G: 255} // committed selection outline
)

// MouseEvent One press/move/release observation in image pixel coordinates
type MouseEvent struct {
	Kind int
	At   image.Point
}

// EventQueue Collects mouse events delivered by the window callback until
// the run loop pulls them. The callback fires inside WaitKey on the same
// thread, but the lock keeps the queue safe either way.
type EventQueue struct {
	mu     sync.Mutex
	events []MouseEvent
}

// Push appends one event
func (q *EventQueue) Push(ev MouseEvent) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

// Drain returns all queued events and empties the queue
func (q *EventQueue) Drain() []MouseEvent {
	q.mu.Lock()
	events := q.events
	q.events = nil
	q.mu.Unlock()
	return events
}

// RegionSelector Drag state machine turning mouse events into a sampled
// crop of the frame's source image
type RegionSelector struct {
	dragging bool
	anchor   image.Point
	cursor   image.Point
	inset    int
}

func NewRegionSelector() *RegionSelector {
	return &RegionSelector{inset: cropInset}
}

// Handle feeds one mouse event through the state machine, mutating fd when
// a release commits a selection. Returns true once fd.Source has been
// replaced by the selected crop, which is the caller's cue to invalidate
// any cached HSV range.
func (s *RegionSelector) Handle(ev MouseEvent, fd *FrameData) bool {
	switch ev.Kind {
	case mouseLeftDown:
		s.dragging = true
		s.anchor = ev.At
		s.cursor = ev.At
	case mouseMove:
		if s.dragging {
			s.cursor = ev.At
		}
	case mouseLeftUp:
		if !s.dragging {
			return false
		}
		s.dragging = false
		s.cursor = ev.At
		return s.commit(fd)
	}
	return false
}

// DrawPreview paints the in-progress selection rectangle on the display
// buffer. Called once per frame after the buffer has been reset, never
// from the event path.
func (s *RegionSelector) DrawPreview(fd *FrameData) {
	if !s.dragging {
		return
	}
	r := image.Rect(s.anchor.X, s.anchor.Y, s.cursor.X, s.cursor.Y)
	gocv.Rectangle(&fd.Display, r, previewColor, selectionThickness)
}

func (s *RegionSelector) commit(fd *FrameData) bool {
	// image.Rect normalizes the corners, so drag direction doesn't matter
	selected := image.Rect(s.anchor.X, s.anchor.Y, s.cursor.X, s.cursor.Y)

	crop := selected.Inset(s.inset)
	ClampRectToImage(&crop, fd.Source.Cols(), fd.Source.Rows())
	if crop.Empty() {
		fmt.Println("Selection too small to sample, try again")
		return false
	}

	gocv.Rectangle(&fd.Source, selected, markerColor, selectionThickness)
	fd.CropSource(crop)
	return true
}
