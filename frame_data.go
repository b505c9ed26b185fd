package picker

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// FrameData Wrapper around the gocv.Mat set owned by a calibration session
type FrameData struct {
	Source  gocv.Mat // Authoritative image, cropped as selections land
	Display gocv.Mat // Redraw buffer, reset from Source every frame
	Sample  gocv.Mat // HSV copy of the latest selection crop
}

// NewFrameData Simplifies creation of FrameData
func NewFrameData() *FrameData {
	fd := FrameData{
		Source:  gocv.NewMat(),
		Display: gocv.NewMat(),
		Sample:  gocv.NewMat(),
	}
	return &fd
}

// Close Simplify memory management for each gocv.Mat of FrameData
func (fd *FrameData) Close() {
	_ = fd.Source.Close()
	_ = fd.Display.Close()
	_ = fd.Sample.Close()
}

// LoadImage Reads the image file into Source and initializes the display buffer
func (fd *FrameData) LoadImage(path string) error {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return errors.Errorf("can't read image from %s", path)
	}
	_ = fd.Source.Close()
	fd.Source = img
	fd.ResetDisplay()
	return nil
}

// ResetDisplay Discards frame annotations by copying Source over Display
func (fd *FrameData) ResetDisplay() {
	fd.Source.CopyTo(&fd.Display)
}

// CropSource Replaces Source with the given region of itself and recomputes
// the HSV sample from the crop. The rectangle must lie inside Source.
func (fd *FrameData) CropSource(r image.Rectangle) {
	region := fd.Source.Region(r)
	cropped := region.Clone()
	_ = region.Close()
	_ = fd.Source.Close()
	fd.Source = cropped
	gocv.CvtColor(fd.Source, &fd.Sample, gocv.ColorBGRToHSV)
}

// HasSample reports whether a selection has produced an HSV sample yet
func (fd *FrameData) HasSample() bool {
	return !fd.Sample.Empty()
}
