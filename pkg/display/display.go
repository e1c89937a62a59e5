package display

import (
	"sync"

	"github.com/tauraamui/dragoneye/pkg/log"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

// NoKey is returned from WaitKey when no key was pressed in time.
const NoKey = -1

type Sink interface {
	Show(videoframe.NoCloser) error
	WaitKey(millis int) int
	Close() error
}

type window interface {
	IMShow(gocv.Mat) error
	WaitKey(int) int
	Close() error
}

type gocvWindow struct {
	w *gocv.Window
}

func (g gocvWindow) IMShow(mat gocv.Mat) error { return g.w.IMShow(mat) }
func (g gocvWindow) WaitKey(delay int) int     { return g.w.WaitKey(delay) }
func (g gocvWindow) Close() error              { return g.w.Close() }

var openWindow = func(title string) window {
	return gocvWindow{w: gocv.NewWindow(title)}
}

func Window(title string) Sink {
	log.Debug("Opening display window: [%s]", title)
	return &windowSink{title: title, w: openWindow(title)}
}

type windowSink struct {
	mu       sync.Mutex
	title    string
	w        window
	isClosed bool
}

func (s *windowSink) Show(frame videoframe.NoCloser) error {
	mat, ok := frame.DataRef().(*gocv.Mat)
	if !ok {
		return xerror.New("must pass OpenCV frame to display window")
	}
	if mat.Empty() {
		return xerror.New("cannot display empty frame")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isClosed {
		return xerror.Errorf("display window [%s] is closed", s.title)
	}
	if err := s.w.IMShow(*mat); err != nil {
		return xerror.Errorf("unable to show frame in display window [%s]: %w", s.title, err)
	}
	return nil
}

func (s *windowSink) WaitKey(millis int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isClosed {
		return NoKey
	}
	return s.w.WaitKey(millis)
}

func (s *windowSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isClosed {
		return nil
	}
	s.isClosed = true
	log.Debug("Closing display window: [%s]", s.title)
	return s.w.Close()
}

// Headless discards every frame, for running without a display.
func Headless() Sink {
	return &headlessSink{}
}

type headlessSink struct {
	shown int
}

func (s *headlessSink) Show(frame videoframe.NoCloser) error {
	if frame.Dimensions().Empty() {
		return xerror.New("cannot display empty frame")
	}
	s.shown++
	return nil
}

func (s *headlessSink) WaitKey(int) int { return NoKey }

func (s *headlessSink) Close() error {
	log.Debug("Headless display discarded %d frames", s.shown)
	return nil
}
