package picker

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
)

// AppSettings Settings for application
type AppSettings struct {
	ImagePath           string              `json:"image_path"`
	CalibrationSettings CalibrationSettings `json:"calibration_settings"`
	ContourSettings     *ContourSettings    `json:"contour_settings"`
	WindowSettings      *WindowSettings     `json:"window_settings"`
	MjpegSettings       MjpegSettings       `json:"mjpeg_settings"`
}

// NewSettings Create new AppSettings from content of configuration file
func NewSettings(fileName string) (*AppSettings, error) {
	jsonFile, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer jsonFile.Close()

	bytesValues, err := ioutil.ReadAll(jsonFile)
	if err != nil {
		return nil, err
	}

	settings := AppSettings{}
	if err = json.Unmarshal(bytesValues, &settings); err != nil {
		return nil, err
	}

	if settings.ImagePath == "" {
		return nil, fmt.Errorf("image_path setting is empty")
	}

	if err := settings.CalibrationSettings.Prepare(); err != nil {
		return nil, errors.Wrap(err, "Can't prepare calibration settings")
	}

	// Fill optional sections with defaults
	if settings.ContourSettings == nil {
		settings.ContourSettings = &ContourSettings{}
	}
	settings.ContourSettings.Prepare()
	if err := settings.ContourSettings.DrawColor.Validate(); err != nil {
		return nil, errors.Wrap(err, "Can't use configured draw color")
	}

	if settings.WindowSettings == nil {
		settings.WindowSettings = &WindowSettings{}
	}
	settings.WindowSettings.Prepare()

	return &settings, nil
}

// CalibrationSettings Choice between estimating the HSV range from the
// selected region (manual=false, expected_hue_range drives the estimator)
// and supplying a full range directly (manual=true)
type CalibrationSettings struct {
	Manual           bool  `json:"manual"`
	ExpectedHueRange []int `json:"expected_hue_range"`
	HSVLower         []int `json:"hsv_lower"`
	HSVUpper         []int `json:"hsv_upper"`

	// Exported, but not from JSON
	ManualRange HSVRange `json:"-"`
}

// Prepare Validates whichever path is configured and derives ManualRange
// for the manual one
func (cs *CalibrationSettings) Prepare() error {
	if cs.Manual {
		if len(cs.HSVLower) != 3 || len(cs.HSVUpper) != 3 {
			return fmt.Errorf("manual calibration needs hsv_lower and hsv_upper with 3 channels each")
		}
		cs.ManualRange = HSVRange{
			Lower: HSV{H: cs.HSVLower[0], S: cs.HSVLower[1], V: cs.HSVLower[2]},
			Upper: HSV{H: cs.HSVUpper[0], S: cs.HSVUpper[1], V: cs.HSVUpper[2]},
		}
		return cs.ManualRange.Validate()
	}

	if len(cs.ExpectedHueRange) != 2 {
		return fmt.Errorf("field 'expected_hue_range' must hold exactly [low, high]")
	}
	return nil
}

// ContourSettings settings for the contour overlay
type ContourSettings struct {
	MinArea   float64  `json:"min_area"`
	DrawColor BGRColor `json:"draw_color"`
}

// Prepare Defaults zero values
func (cs *ContourSettings) Prepare() {
	if cs.MinArea <= 0 {
		cs.MinArea = DefaultMinContourArea
	}
	if cs.DrawColor == (BGRColor{}) {
		cs.DrawColor = DefaultDrawColor
	}
}

// WindowSettings settings for the display window
type WindowSettings struct {
	Title       string `json:"title"`
	PollDelayMs int    `json:"poll_delay_ms"`
}

// Prepare Defaults zero values
func (ws *WindowSettings) Prepare() {
	if ws.Title == "" {
		ws.Title = "Color Finder"
	}
	if ws.PollDelayMs <= 0 {
		ws.PollDelayMs = 10
	}
}

// MjpegSettings settings for the preview stream
type MjpegSettings struct {
	Enable bool `json:"enable"`
	Port   int  `json:"port"`
}
