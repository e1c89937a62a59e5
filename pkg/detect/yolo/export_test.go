package yolo

import (
	"image"

	"github.com/spf13/afero"
	"github.com/tauraamui/dragoneye/pkg/detect"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
	"gocv.io/x/gocv"
)

type Candidate = candidate

func (c candidate) Class() int           { return c.class }
func (c candidate) Score() float32       { return c.score }
func (c candidate) Box() image.Rectangle { return c.box }

func NewCandidate(class int, score float32, box image.Rectangle) Candidate {
	return candidate{class: class, score: score, box: box}
}

func DecodeOutput(data []float32, shape []int, inputSize int, frame videoframe.Dimensions, threshold float32) ([]Candidate, error) {
	return decodeOutput(data, shape, outputDecodeSettings{inputSize: inputSize, frame: frame, threshold: threshold})
}

var Suppress = suppress

func OverloadNMSBoxes(o func([]image.Rectangle, []float32, float32, float32) []int) func() {
	ref := nmsBoxes
	nmsBoxes = o
	return func() { nmsBoxes = ref }
}

func OverloadFS(o afero.Fs) func() {
	ref := fs
	fs = o
	return func() { fs = ref }
}

func NewResult(source *gocv.Mat, detections []detect.Detection) detect.Result {
	return &result{source: source, detections: detections}
}

func OverloadCopyMat(o func(src, dst *gocv.Mat) error) func() {
	ref := copyMat
	copyMat = o
	return func() { copyMat = ref }
}
