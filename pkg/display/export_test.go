package display

import "gocv.io/x/gocv"

type WindowHandle interface {
	IMShow(gocv.Mat) error
	WaitKey(int) int
	Close() error
}

func OverloadOpenWindow(o func(string) WindowHandle) func() {
	ref := openWindow
	openWindow = func(title string) window { return o(title) }
	return func() { openWindow = ref }
}
