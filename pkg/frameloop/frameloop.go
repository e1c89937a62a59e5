package frameloop

import (
	"errors"

	"github.com/tauraamui/dragoneye/pkg/detect"
	"github.com/tauraamui/dragoneye/pkg/log"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

var ErrLoopAlreadyRan = errors.New("frame loop has already run")

type StopReason int

const (
	Exhausted StopReason = iota
	Quit
	DecodeFailed
)

func (r StopReason) String() string {
	switch r {
	case Exhausted:
		return "stream exhausted"
	case Quit:
		return "quit key pressed"
	case DecodeFailed:
		return "frame decode failed"
	default:
		return "unknown"
	}
}

type Stats struct {
	Displayed int
	Reason    StopReason
}

type Source interface {
	Read(videoframe.Frame) error
	Close() error
}

type Frames interface {
	NewFrame() videoframe.Frame
	Resize(src videoframe.NoCloser, dst videoframe.Frame, to videoframe.Dimensions) error
}

type Sink interface {
	Show(videoframe.NoCloser) error
	WaitKey(millis int) int
	Close() error
}

type Settings struct {
	Source        Source
	Frames        Frames
	Detector      detect.Detector
	Sink          Sink
	InputSize     int
	QuitKey       int
	WaitKeyMillis int
}

// Loop owns Source and Sink once constructed, both are released
// when Run returns regardless of how it exits. The detector is
// borrowed and left open.
type Loop struct {
	source        Source
	frames        Frames
	detector      detect.Detector
	sink          Sink
	inputSize     int
	quitKey       int
	waitKeyMillis int
	ran           bool
}

func New(settings Settings) *Loop {
	return &Loop{
		source:        settings.Source,
		frames:        settings.Frames,
		detector:      settings.Detector,
		sink:          settings.Sink,
		inputSize:     settings.InputSize,
		quitKey:       settings.QuitKey & 0xFF,
		waitKeyMillis: settings.WaitKeyMillis,
	}
}

func (l *Loop) Run() (stats Stats, err error) {
	if l.ran {
		return Stats{}, ErrLoopAlreadyRan
	}
	l.ran = true

	defer func() {
		if releaseErr := l.release(); releaseErr != nil && err == nil {
			err = releaseErr
		}
	}()

	frame := l.frames.NewFrame()
	defer frame.Close()
	resized := l.frames.NewFrame()
	defer resized.Close()
	annotated := l.frames.NewFrame()
	defer annotated.Close()

	inputDimensions := videoframe.Square(l.inputSize)
	for {
		if readErr := l.source.Read(frame); readErr != nil {
			stats.Reason = readFailureReason(readErr)
			if stats.Reason == DecodeFailed {
				log.Warn("Stopping after %d frames, unable to read next frame: %s", stats.Displayed, readErr.Error())
			}
			return stats, nil
		}

		if err := l.processFrame(frame, resized, annotated, inputDimensions); err != nil {
			return stats, xerror.Errorf("unable to process frame %d: %w", stats.Displayed+1, err)
		}
		stats.Displayed++

		if key := l.sink.WaitKey(l.waitKeyMillis); key >= 0 && key&0xFF == l.quitKey {
			stats.Reason = Quit
			return stats, nil
		}
	}
}

func (l *Loop) processFrame(frame videoframe.NoCloser, resized, annotated videoframe.Frame, to videoframe.Dimensions) error {
	if err := l.frames.Resize(frame, resized, to); err != nil {
		return err
	}

	result, err := l.detector.Detect(resized)
	if err != nil {
		return xerror.Errorf("detection failed: %w", err)
	}
	log.Debug("Detected %d objects in frame", len(result.Detections()))

	if err := result.Plot(annotated); err != nil {
		return xerror.Errorf("unable to plot detections: %w", err)
	}

	return l.sink.Show(annotated)
}

func readFailureReason(err error) StopReason {
	if errors.Is(err, videoframe.ErrEndOfStream) {
		return Exhausted
	}
	return DecodeFailed
}

func (l *Loop) release() error {
	var firstErr error
	if err := l.source.Close(); err != nil {
		log.Error("Unable to release video source: %s", err.Error())
		firstErr = err
	}
	if err := l.sink.Close(); err != nil {
		log.Error("Unable to close display: %s", err.Error())
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
