package picker

import (
	"fmt"
	"image"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hybridgroup/mjpeg"
	"github.com/pkg/errors"
	"github.com/projecthunt/reuseable"
	"github.com/rs/cors"
	"gocv.io/x/gocv"
)

const quitKey = 'q'

// Application Main engine
type Application struct {
	settings  *AppSettings
	frame     *FrameData
	selector  *RegionSelector
	estimator *RangeEstimator
	events    *EventQueue
}

func NewApp(settings *AppSettings) (*Application, error) {
	frame := NewFrameData()
	if err := frame.LoadImage(settings.ImagePath); err != nil {
		frame.Close()
		return nil, errors.Wrapf(err, "Can't load image %s", settings.ImagePath)
	}

	app := &Application{
		settings: settings,
		frame:    frame,
		selector: NewRegionSelector(),
		events:   &EventQueue{},
	}

	if !settings.CalibrationSettings.Manual {
		hueRange := settings.CalibrationSettings.ExpectedHueRange
		estimator, err := NewRangeEstimator(hueRange[0], hueRange[1])
		if err != nil {
			frame.Close()
			return nil, errors.Wrap(err, "Can't create range estimator")
		}
		app.estimator = estimator
	}

	return app, nil
}

// StartMJPEGStream Start MJPEG preview stream in separate goroutine
func (app *Application) StartMJPEGStream() *mjpeg.Stream {
	stream := mjpeg.NewStream()

	go func() {
		fmt.Printf("Starting MJPEG preview on http://localhost:%d\n", app.settings.MjpegSettings.Port)

		router := mux.NewRouter()
		c := cors.New(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowCredentials: true,
		})

		router.HandleFunc("/", stream.ServeHTTP)
		http.Handle("/", c.Handler(router))

		listener, err := reuseable.Listen("tcp4", fmt.Sprintf("0.0.0.0:%d", app.settings.MjpegSettings.Port))
		if err != nil {
			log.Fatalln(err)
		}
		if err := http.Serve(listener, nil); err != nil {
			log.Fatalln(err)
		}
	}()
	return stream
}

func (app *Application) Run() error {
	settings := app.settings

	fmt.Printf("Press '%c' to quit\n", quitKey)
	window := gocv.NewWindow(settings.WindowSettings.Title)
	defer window.Close()
	window.SetMouseHandler(app.onMouse, nil)

	/* Initialize MJPEG server if needed */
	var stream *mjpeg.Stream
	if settings.MjpegSettings.Enable {
		stream = app.StartMJPEGStream()
	}

	for {
		window.IMShow(app.frame.Display)

		// Mouse callbacks fire inside WaitKey and land on the event queue
		key := window.WaitKey(settings.WindowSettings.PollDelayMs)
		if key == quitKey {
			break
		}

		for _, ev := range app.events.Drain() {
			if app.selector.Handle(ev, app.frame) && app.estimator != nil {
				app.estimator.Invalidate()
			}
		}

		app.frame.ResetDisplay()
		app.selector.DrawPreview(app.frame)
		app.overlayDetection()

		if stream != nil {
			buf, err := gocv.IMEncode(".jpg", app.frame.Display)
			if err != nil {
				log.Printf("Error while encoding to JPG (mjpeg): %s", err.Error())
			} else {
				stream.UpdateJPEG(buf.GetBytes())
			}
		}
	}

	// Hard release memory
	app.frame.Close()

	return nil
}

// currentRange resolves the HSV range to detect with: the configured one on
// the manual path, otherwise the estimator's memoized result once a region
// has been sampled
func (app *Application) currentRange() (HSVRange, bool) {
	if app.settings.CalibrationSettings.Manual {
		return app.settings.CalibrationSettings.ManualRange, true
	}
	if !app.frame.HasSample() {
		return HSVRange{}, false
	}
	return app.estimator.Range(app.frame.Sample), true
}

// overlayDetection re-runs the contour pipeline against the current source
// image and draws the best match on the display buffer
func (app *Application) overlayDetection() {
	bounds, ok := app.currentRange()
	if !ok {
		return
	}
	fmt.Printf("current hsv range: %s\n", bounds)

	contours, err := FindContours(app.frame.Source, bounds)
	if err != nil {
		log.Printf("Can't find contours due the error: %s", err.Error())
		return
	}

	largest := LargestContour(contours, app.settings.ContourSettings.MinArea)
	if largest == nil {
		return
	}
	if err := DrawContour(&app.frame.Display, largest, app.settings.ContourSettings.DrawColor); err != nil {
		log.Printf("Can't draw contour due the error: %s", err.Error())
	}
}

func (app *Application) onMouse(event int, x int, y int, flags int, userdata interface{}) {
	switch event {
	case mouseLeftDown, mouseMove, mouseLeftUp:
		app.events.Push(MouseEvent{Kind: event, At: image.Pt(x, y)})
	}
}
