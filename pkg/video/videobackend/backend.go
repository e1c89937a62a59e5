package videobackend

import (
	"context"

	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
)

var (
	ErrEndOfStream  = videoframe.ErrEndOfStream
	ErrDecodeFailed = videoframe.ErrDecodeFailed
)

type Connection interface {
	UUID() string
	Read(videoframe.Frame) error
	IsOpen() bool
	Close() error
}

type Backend interface {
	Open(context.Context, string) (Connection, error)
	NewFrame() videoframe.Frame
	Resize(src videoframe.NoCloser, dst videoframe.Frame, to videoframe.Dimensions) error
}

func Default() Backend {
	return OpenCV()
}

func OpenCV() Backend {
	return &openCVBackend{}
}

func Mock() Backend {
	return &mockVideoBackend{}
}

func Resolve(t string) Backend {
	switch t {
	case "mock":
		return Mock()
	default:
		return Default()
	}
}
