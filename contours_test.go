package picker

import (
	"image"
	"testing"

	"gocv.io/x/gocv"
)

// newHSVMat builds a uniformly colored 8UC3 mat interpreted as HSV
func newHSVMat(rows, cols int, fill HSV) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(fill.scalar(), rows, cols, gocv.MatTypeCV8UC3)
}

func setPixel(m *gocv.Mat, y, x int, px HSV) {
	m.SetUCharAt(y, x*3+0, uint8(px.H))
	m.SetUCharAt(y, x*3+1, uint8(px.S))
	m.SetUCharAt(y, x*3+2, uint8(px.V))
}

func TestLargestContour(t *testing.T) {
	small := Contour{Points: []image.Point{{X: 0, Y: 0}}, Area: 5}
	medium := Contour{Points: []image.Point{{X: 2, Y: 2}}, Area: 25}
	big := Contour{Points: []image.Point{{X: 4, Y: 4}}, Area: 100}

	tests := []struct {
		name     string
		contours []Contour
		minArea  float64
		want     *Contour
	}{
		{name: "empty list", contours: nil, minArea: 0, want: nil},
		{name: "picks maximum area", contours: []Contour{small, big, medium}, minArea: 30, want: &big},
		{name: "maximum below threshold", contours: []Contour{small, medium}, minArea: 30, want: nil},
		{name: "threshold is not strict", contours: []Contour{medium}, minArea: 25, want: &medium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LargestContour(tt.contours, tt.minArea)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("LargestContour() = %v, want %v", got, tt.want)
			}
			if got != nil && got.Area != tt.want.Area {
				t.Errorf("LargestContour().Area = %v, want %v", got.Area, tt.want.Area)
			}
		})
	}
}

func TestLargestContourTieKeepsFirst(t *testing.T) {
	first := Contour{Points: []image.Point{{X: 0, Y: 0}}, Area: 50}
	second := Contour{Points: []image.Point{{X: 9, Y: 9}}, Area: 50}

	got := LargestContour([]Contour{first, second}, 10)
	if got == nil {
		t.Fatal("LargestContour() = nil, want first contour")
	}
	if got.Points[0] != first.Points[0] {
		t.Errorf("tie must keep first maximal element, got %v", got)
	}
}

func TestBGRColorValidate(t *testing.T) {
	if err := (BGRColor{0, 255, 0}).Validate(); err != nil {
		t.Errorf("green must validate, got %v", err)
	}
	if err := (BGRColor{0, 256, 0}).Validate(); err == nil {
		t.Error("channel above 255 must be rejected")
	}
	if err := (BGRColor{-1, 0, 0}).Validate(); err == nil {
		t.Error("negative channel must be rejected")
	}
}

func TestFindContoursRejectsInvalidBounds(t *testing.T) {
	img := gocv.NewMat()
	defer img.Close()

	tests := []struct {
		name   string
		bounds HSVRange
	}{
		{name: "hue out of domain", bounds: HSVRange{Lower: HSV{H: 200}, Upper: HSV{H: 10, S: 255, V: 255}}},
		{name: "saturation out of domain", bounds: HSVRange{Lower: HSV{S: 300}, Upper: HSV{H: 10, S: 255, V: 255}}},
		{name: "saturation ordering", bounds: HSVRange{Lower: HSV{S: 200}, Upper: HSV{H: 10, S: 100, V: 255}}},
		{name: "value ordering", bounds: HSVRange{Lower: HSV{V: 200}, Upper: HSV{H: 10, S: 255, V: 100}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The empty mat would crash color conversion, so an error here
			// proves the bounds were rejected before any image processing.
			if _, err := FindContours(img, tt.bounds); err == nil {
				t.Error("FindContours() accepted invalid bounds")
			}
		})
	}
}

func TestRangeMaskStraightBand(t *testing.T) {
	hsvImg := newHSVMat(6, 6, HSV{H: 100, S: 150, V: 150})
	defer hsvImg.Close()
	setPixel(&hsvImg, 0, 0, HSV{H: 50, S: 150, V: 150})  // hue below band
	setPixel(&hsvImg, 5, 5, HSV{H: 100, S: 10, V: 150})  // saturation below band
	setPixel(&hsvImg, 3, 3, HSV{H: 110, S: 255, V: 255}) // inside on every channel

	bounds := HSVRange{Lower: HSV{H: 90, S: 50, V: 50}, Upper: HSV{H: 110, S: 255, V: 255}}
	mask := rangeMask(hsvImg, bounds)
	defer mask.Close()

	if got := mask.GetUCharAt(1, 1); got != 255 {
		t.Errorf("uniform pixel not in mask, got %d", got)
	}
	if got := mask.GetUCharAt(3, 3); got != 255 {
		t.Errorf("in-band pixel not in mask, got %d", got)
	}
	if got := mask.GetUCharAt(0, 0); got != 0 {
		t.Errorf("pixel below hue band must be excluded, got %d", got)
	}
	if got := mask.GetUCharAt(5, 5); got != 0 {
		t.Errorf("pixel below saturation band must be excluded, got %d", got)
	}
}

func TestRangeMaskHueWrap(t *testing.T) {
	hsvImg := newHSVMat(4, 4, HSV{H: 90, S: 200, V: 200})
	defer hsvImg.Close()
	setPixel(&hsvImg, 0, 0, HSV{H: 175, S: 200, V: 200}) // high side of the wrap
	setPixel(&hsvImg, 0, 1, HSV{H: 5, S: 200, V: 200})   // low side of the wrap

	bounds := HSVRange{Lower: HSV{H: 170, S: 50, V: 50}, Upper: HSV{H: 10, S: 255, V: 255}}
	mask := rangeMask(hsvImg, bounds)
	defer mask.Close()

	if got := mask.GetUCharAt(0, 0); got != 255 {
		t.Errorf("hue 175 must be inside the wrapped band, got %d", got)
	}
	if got := mask.GetUCharAt(0, 1); got != 255 {
		t.Errorf("hue 5 must be inside the wrapped band, got %d", got)
	}
	if got := mask.GetUCharAt(2, 2); got != 0 {
		t.Errorf("hue 90 must be outside the wrapped band, got %d", got)
	}
}

// The wrapped mask must equal the union of the two straight bands split at
// the hue boundary.
func TestRangeMaskWrapEqualsUnionOfSplitBands(t *testing.T) {
	hsvImg := newHSVMat(8, 8, HSV{H: 90, S: 200, V: 200})
	defer hsvImg.Close()
	setPixel(&hsvImg, 1, 1, HSV{H: 178, S: 200, V: 200})
	setPixel(&hsvImg, 2, 2, HSV{H: 2, S: 200, V: 200})
	setPixel(&hsvImg, 3, 3, HSV{H: 175, S: 10, V: 200}) // saturation keeps it out of both

	wrapped := rangeMask(hsvImg, HSVRange{Lower: HSV{H: 170, S: 50, V: 50}, Upper: HSV{H: 10, S: 255, V: 255}})
	defer wrapped.Close()

	highBand := rangeMask(hsvImg, HSVRange{Lower: HSV{H: 170, S: 50, V: 50}, Upper: HSV{H: hueMax, S: 255, V: 255}})
	defer highBand.Close()
	lowBand := rangeMask(hsvImg, HSVRange{Lower: HSV{H: 0, S: 50, V: 50}, Upper: HSV{H: 10, S: 255, V: 255}})
	defer lowBand.Close()

	union := gocv.NewMat()
	defer union.Close()
	gocv.BitwiseOr(highBand, lowBand, &union)

	for y := 0; y < hsvImg.Rows(); y++ {
		for x := 0; x < hsvImg.Cols(); x++ {
			if wrapped.GetUCharAt(y, x) != union.GetUCharAt(y, x) {
				t.Fatalf("mask mismatch at (%d, %d): wrapped %d, union %d", x, y, wrapped.GetUCharAt(y, x), union.GetUCharAt(y, x))
			}
		}
	}
}

func TestFindContoursLocatesColorBlob(t *testing.T) {
	// Black background with a pure green 6x6 block: BGR (0, 255, 0)
	// converts to exactly HSV (60, 255, 255).
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 12, 12, gocv.MatTypeCV8UC3)
	defer img.Close()
	for y := 3; y < 9; y++ {
		for x := 3; x < 9; x++ {
			img.SetUCharAt(y, x*3+1, 255)
		}
	}

	bounds := HSVRange{Lower: HSV{H: 50, S: 100, V: 100}, Upper: HSV{H: 70, S: 255, V: 255}}
	contours, err := FindContours(img, bounds)
	if err != nil {
		t.Fatalf("FindContours() error: %v", err)
	}
	if len(contours) != 1 {
		t.Fatalf("FindContours() found %d contours, want 1", len(contours))
	}

	// A filled 6x6 pixel block encloses a 5x5 boundary polygon
	if contours[0].Area != 25 {
		t.Errorf("contour area = %v, want 25", contours[0].Area)
	}
	wantBounds := image.Rect(3, 3, 9, 9)
	if got := contours[0].Bounds(); got != wantBounds {
		t.Errorf("contour bounds = %v, want %v", got, wantBounds)
	}

	if got := LargestContour(contours, 10); got == nil {
		t.Error("LargestContour(minArea=10) = nil, want the block contour")
	}
	if got := LargestContour(contours, 30); got != nil {
		t.Errorf("LargestContour(minArea=30) = %v, want nil", got)
	}
}

func TestDrawContourInvalidColorLeavesImageUntouched(t *testing.T) {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 8, 8, gocv.MatTypeCV8UC3)
	defer img.Close()

	contour := &Contour{Points: []image.Point{{X: 1, Y: 1}, {X: 6, Y: 1}, {X: 6, Y: 6}, {X: 1, Y: 6}}, Area: 25}
	if err := DrawContour(&img, contour, BGRColor{0, 999, 0}); err == nil {
		t.Fatal("DrawContour() accepted an out-of-domain color")
	}

	for y := 0; y < img.Rows(); y++ {
		for x := 0; x < img.Cols()*3; x++ {
			if img.GetUCharAt(y, x) != 0 {
				t.Fatalf("image modified at (%d, %d) despite invalid color", x, y)
			}
		}
	}
}

func TestDrawContourNilContourIsNoOp(t *testing.T) {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 8, 8, gocv.MatTypeCV8UC3)
	defer img.Close()

	if err := DrawContour(&img, nil, DefaultDrawColor); err != nil {
		t.Fatalf("DrawContour(nil) error: %v", err)
	}
	for y := 0; y < img.Rows(); y++ {
		for x := 0; x < img.Cols()*3; x++ {
			if img.GetUCharAt(y, x) != 0 {
				t.Fatalf("image modified at (%d, %d) by nil contour", x, y)
			}
		}
	}
}

func TestDrawContourPaintsBoundary(t *testing.T) {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 16, 16, gocv.MatTypeCV8UC3)
	defer img.Close()

	contour := &Contour{Points: []image.Point{{X: 4, Y: 4}, {X: 11, Y: 4}, {X: 11, Y: 11}, {X: 4, Y: 11}}, Area: 49}
	if err := DrawContour(&img, contour, DefaultDrawColor); err != nil {
		t.Fatalf("DrawContour() error: %v", err)
	}

	// Green channel of a boundary corner must carry the draw color
	if got := img.GetUCharAt(4, 4*3+1); got != 255 {
		t.Errorf("boundary pixel green channel = %d, want 255", got)
	}
}
