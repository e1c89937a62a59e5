package videoframe

import "errors"

type Dimensions struct {
	W, H int
}

func (d Dimensions) Empty() bool {
	return d.W <= 0 || d.H <= 0
}

func Square(size int) Dimensions {
	return Dimensions{W: size, H: size}
}

// NoCloser is a frame which can be read from, but whose
// lifetime is owned by someone else.
type NoCloser interface {
	DataRef() interface{}
	Dimensions() Dimensions
}

type Frame interface {
	NoCloser
	Close()
}

var (
	// ErrEndOfStream is returned when reading from a source which
	// has no more frames.
	ErrEndOfStream = errors.New("end of video stream")
	// ErrDecodeFailed is returned when reading from a source which still
	// reports frames remaining, but none could be decoded.
	ErrDecodeFailed = errors.New("unable to decode frame from video stream")
)
