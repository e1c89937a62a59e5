// Package detect defines the object detection model contract used by
// the frame loop, independent of any particular inference runtime.
package detect

import (
	"fmt"
	"image"

	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
)

// Detection is a single located object, Box is in the pixel space
// of the frame which was passed to the detector.
type Detection struct {
	Class      int
	Label      string
	Confidence float32
	Box        image.Rectangle
}

func (d Detection) String() string {
	return fmt.Sprintf("%s %.2f", d.Label, d.Confidence)
}

type Result interface {
	Detections() []Detection
	// Plot renders the frame the result was produced from, with each
	// detection's box, label and score drawn over it, into dst.
	Plot(dst videoframe.Frame) error
}

type Detector interface {
	Detect(videoframe.NoCloser) (Result, error)
	Close() error
}
