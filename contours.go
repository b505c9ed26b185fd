package picker

import (
	"fmt"
	"image"
	"image/color"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

const (
	// DefaultMinContourArea Smallest blob worth reporting, in pixels
	DefaultMinContourArea = 30.0

	contourThickness = 3
)

// BGRColor Draw color as a blue-green-red triple, channels in [0, 255]
type BGRColor [3]int

// DefaultDrawColor Green
var DefaultDrawColor = BGRColor{0, 255, 0}

// Validate checks every channel is in [0, 255]
func (c BGRColor) Validate() error {
	for _, channel := range c {
		if channel < 0 || channel > 255 {
			return errors.Errorf("invalid color (%d, %d, %d): each channel must be in [0, 255]", c[0], c[1], c[2])
		}
	}
	return nil
}

func (c BGRColor) rgba() color.RGBA {
	return color.RGBA{R: uint8(c[2]), G: uint8(c[1]), B: uint8(c[0])}
}

// Contour Boundary of one connected region of mask-positive pixels
type Contour struct {
	// Essential boundary vertices, not every boundary pixel
	Points []image.Point
	// Enclosed area as computed from the boundary polygon
	Area float64
}

// Bounds returns the bounding rectangle of the contour
func (c *Contour) Bounds() image.Rectangle {
	var r image.Rectangle
	for _, pt := range c.Points {
		r = r.Union(image.Rectangle{Min: pt, Max: pt.Add(image.Pt(1, 1))})
	}
	return r
}

// String returns something we call 'hash' for the contour
func (c *Contour) String() string {
	b := c.Bounds()
	return fmt.Sprintf("Contour{area: %.1f, rect: ((%d, %d), (%d, %d))}", c.Area, b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
}

// rangeMask builds the binary mask of pixels whose HSV falls inside bounds.
// A wrapping hue band is the union of the two straight bands split at the
// hue boundary.
func rangeMask(hsvImg gocv.Mat, bounds HSVRange) gocv.Mat {
	mask := gocv.NewMat()
	if !bounds.WrapsHue() {
		gocv.InRangeWithScalar(hsvImg, bounds.Lower.scalar(), bounds.Upper.scalar(), &mask)
		return mask
	}

	highBand := gocv.NewMat()
	defer highBand.Close()
	lowBand := gocv.NewMat()
	defer lowBand.Close()

	gocv.InRangeWithScalar(hsvImg, bounds.Lower.scalar(), HSV{H: hueMax, S: bounds.Upper.S, V: bounds.Upper.V}.scalar(), &highBand)
	gocv.InRangeWithScalar(hsvImg, HSV{H: 0, S: bounds.Lower.S, V: bounds.Lower.V}.scalar(), bounds.Upper.scalar(), &lowBand)
	gocv.BitwiseOr(highBand, lowBand, &mask)
	return mask
}

// FindContours Finds all contours of the specified color range in the provided BGR image
//
// img - BGR image to search
// bounds - HSV lower/upper bound pair; hue may wrap (lower > upper)
//
// Bounds are validated before any image processing happens.
func FindContours(img gocv.Mat, bounds HSVRange) ([]Contour, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}

	hsvImg := gocv.NewMat()
	defer hsvImg.Close()
	gocv.CvtColor(img, &hsvImg, gocv.ColorBGRToHSV)

	mask := rangeMask(hsvImg, bounds)
	defer mask.Close()

	found := gocv.FindContours(mask, gocv.RetrievalList, gocv.ChainApproxSimple)
	defer found.Close()

	contours := make([]Contour, 0, found.Size())
	for i := 0; i < found.Size(); i++ {
		pts := found.At(i)
		contours = append(contours, Contour{
			Points: pts.ToPoints(),
			Area:   gocv.ContourArea(pts),
		})
	}
	return contours, nil
}

// LargestContour Picks the contour with the greatest area, or nil if the
// list is empty or the greatest area is below minArea. Ties keep the first
// maximal element encountered.
func LargestContour(contours []Contour, minArea float64) *Contour {
	if len(contours) == 0 {
		return nil
	}

	greatest := 0
	for i := 1; i < len(contours); i++ {
		if contours[i].Area > contours[greatest].Area {
			greatest = i
		}
	}
	if contours[greatest].Area < minArea {
		return nil
	}
	return &contours[greatest]
}

// DrawContour Overlays the contour boundary on img in the given color with
// fixed thickness. The color is validated before the image is touched; a
// nil contour is a no-op.
func DrawContour(img *gocv.Mat, contour *Contour, clr BGRColor) error {
	if err := clr.Validate(); err != nil {
		return err
	}
	if contour == nil {
		return nil
	}

	pts := gocv.NewPointsVectorFromPoints([][]image.Point{contour.Points})
	defer pts.Close()
	gocv.DrawContours(img, pts, 0, clr.rgba(), contourThickness)
	return nil
}
