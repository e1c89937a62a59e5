package videobackend

import "gocv.io/x/gocv"

var ClassifyReadFailure = classifyReadFailure
var ParseMockAddress = parseMockAddress

func (s mockSettings) Frames() int   { return s.frames }
func (s mockSettings) Label() string { return s.label }

func OverloadCopyMat(o func(src, dst *gocv.Mat) error) func() {
	ref := copyMat
	copyMat = o
	return func() { copyMat = ref }
}

func OverloadOpenVideoCapture(o func(string) (*gocv.VideoCapture, error)) func() {
	ref := openVideoCapture
	openVideoCapture = o
	return func() { openVideoCapture = ref }
}
