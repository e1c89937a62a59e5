package yolo

import (
	"image"
	"image/color"

	"github.com/tauraamui/dragoneye/pkg/detect"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

const (
	boxThickness   = 2
	labelFont      = gocv.FontHersheySimplex
	labelScale     = 0.5
	labelThickness = 1
	labelPadding   = 3
)

var palette = []color.RGBA{
	{R: 255, G: 56, B: 56}, {R: 255, G: 157, B: 151}, {R: 255, G: 112, B: 31}, {R: 255, G: 178, B: 29},
	{R: 207, G: 210, B: 49}, {R: 72, G: 249, B: 10}, {R: 146, G: 204, B: 23}, {R: 61, G: 219, B: 134},
	{R: 26, G: 147, B: 52}, {R: 0, G: 212, B: 187}, {R: 44, G: 153, B: 168}, {R: 0, G: 194, B: 255},
	{R: 52, G: 69, B: 147}, {R: 100, G: 115, B: 255}, {R: 0, G: 24, B: 236}, {R: 132, G: 56, B: 255},
	{R: 82, G: 0, B: 133}, {R: 203, G: 56, B: 255}, {R: 255, G: 149, B: 200}, {R: 255, G: 55, B: 199},
}

func classColor(class int) color.RGBA {
	if class < 0 {
		class = -class
	}
	return palette[class%len(palette)]
}

type result struct {
	source     *gocv.Mat
	detections []detect.Detection
}

func (r *result) Detections() []detect.Detection {
	return r.detections
}

func (r *result) Plot(dst videoframe.Frame) error {
	dstMat, ok := dst.DataRef().(*gocv.Mat)
	if !ok {
		return xerror.New("must pass OpenCV frame to plot detections onto")
	}
	if r.source == nil || r.source.Empty() {
		return xerror.New("detection source frame is empty")
	}

	if err := copyMat(r.source, dstMat); err != nil {
		return xerror.Errorf("unable to copy detection source frame: %w", err)
	}

	for _, detection := range r.detections {
		if err := drawDetection(dstMat, detection); err != nil {
			return err
		}
	}
	return nil
}

var copyMat = func(src, dst *gocv.Mat) error {
	return src.CopyTo(dst)
}

func drawDetection(mat *gocv.Mat, detection detect.Detection) error {
	c := classColor(detection.Class)
	if err := gocv.Rectangle(mat, detection.Box, c, boxThickness); err != nil {
		return xerror.Errorf("failed to draw detection box: %w", err)
	}

	text := detection.String()
	textSize := gocv.GetTextSize(text, labelFont, labelScale, labelThickness)

	// labels sit above the box unless that would leave the frame
	top := detection.Box.Min.Y - textSize.Y - 2*labelPadding
	if top < 0 {
		top = detection.Box.Min.Y
	}
	background := image.Rect(
		detection.Box.Min.X, top,
		detection.Box.Min.X+textSize.X+2*labelPadding, top+textSize.Y+2*labelPadding,
	)
	if err := gocv.Rectangle(mat, background, c, -1); err != nil {
		return xerror.Errorf("failed to draw detection label background: %w", err)
	}

	origin := image.Pt(background.Min.X+labelPadding, background.Max.Y-labelPadding)
	if err := gocv.PutText(mat, text, origin, labelFont, labelScale, color.RGBA{R: 255, G: 255, B: 255}, labelThickness); err != nil {
		return xerror.Errorf("failed to draw detection label: %w", err)
	}
	return nil
}
