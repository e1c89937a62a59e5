package videobackend

import (
	"context"
	"image"
	"sync"

	"github.com/google/uuid"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

type openCVFrame struct {
	isClosed bool
	mat      gocv.Mat
}

func (frame *openCVFrame) DataRef() interface{} {
	return &frame.mat
}

func (frame *openCVFrame) Dimensions() videoframe.Dimensions {
	return videoframe.Dimensions{W: frame.mat.Cols(), H: frame.mat.Rows()}
}

func (frame *openCVFrame) Close() {
	if !frame.isClosed {
		frame.mat.Close()
		frame.isClosed = true
	}
}

type openCVBackend struct{}

func (b *openCVBackend) Open(cancel context.Context, addr string) (Connection, error) {
	conn := openCVConnection{}
	err := conn.connect(cancel, addr)
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

func (b *openCVBackend) NewFrame() videoframe.Frame {
	return &openCVFrame{mat: gocv.NewMat()}
}

func (b *openCVBackend) Resize(src videoframe.NoCloser, dst videoframe.Frame, to videoframe.Dimensions) error {
	return resizeMat(src, dst, to)
}

// resizeMat always uses bilinear interpolation.
func resizeMat(src videoframe.NoCloser, dst videoframe.Frame, to videoframe.Dimensions) error {
	srcMat, ok := src.DataRef().(*gocv.Mat)
	if !ok {
		return xerror.New("must pass OpenCV frame as resize source")
	}
	dstMat, ok := dst.DataRef().(*gocv.Mat)
	if !ok {
		return xerror.New("must pass OpenCV frame as resize destination")
	}

	if srcMat.Empty() || src.Dimensions().Empty() {
		return xerror.New("cannot resize empty frame")
	}
	if to.Empty() {
		return xerror.Errorf("cannot resize frame to %dx%d", to.W, to.H)
	}

	if err := gocv.Resize(*srcMat, dstMat, image.Pt(to.W, to.H), 0, 0, gocv.InterpolationLinear); err != nil {
		return xerror.Errorf("unable to resize frame: %w", err)
	}
	return nil
}

type openCVConnection struct {
	uuid     string
	mu       sync.Mutex
	isOpen   bool
	isClosed bool
	vc       *gocv.VideoCapture
}

func (c *openCVConnection) connect(cancel context.Context, addr string) error {
	connAndError := make(chan openVideoStreamResult, 1)
	go openVideoStream(addr, connAndError)
	select {
	case r := <-connAndError:
		if r.err != nil {
			return r.err
		}
		c.vc = r.vc
		c.isOpen = true
		return nil
	case <-cancel.Done():
		return xerror.New("connection cancelled")
	}
}

type openVideoStreamResult struct {
	vc  *gocv.VideoCapture
	err error
}

func openVideoStream(addr string, d chan openVideoStreamResult) {
	vc, err := openVideoCapture(addr)
	if err == nil && !videoCaptureIsOpen(vc) {
		vc.Close()
		vc, err = nil, xerror.New("video capture did not open")
	}
	d <- openVideoStreamResult{vc: vc, err: err}
}

var openVideoCapture = func(addr string) (*gocv.VideoCapture, error) {
	return gocv.OpenVideoCapture(addr)
}

var videoCaptureIsOpen = func(vc *gocv.VideoCapture) bool {
	return vc.IsOpened()
}

var readFromVideoConnection = func(vc *gocv.VideoCapture, mat *gocv.Mat) bool {
	if vc.IsOpened() {
		return vc.Read(mat)
	}
	return false
}

var videoConnectionPosition = func(vc *gocv.VideoCapture) (pos, count float64) {
	return vc.Get(gocv.VideoCapturePosFrames), vc.Get(gocv.VideoCaptureFrameCount)
}

var copyMat = func(src, dst *gocv.Mat) error {
	return src.CopyTo(dst)
}

var closeVideoCapture = func(vc *gocv.VideoCapture) error {
	return vc.Close()
}

// classifyReadFailure decides why a capture read produced no frame.
// Sources which cannot report a frame count are treated as exhausted.
func classifyReadFailure(pos, count float64) error {
	if count <= 0 || pos >= count {
		return ErrEndOfStream
	}
	return ErrDecodeFailed
}

func (c *openCVConnection) UUID() string {
	if len(c.uuid) == 0 {
		c.uuid = uuid.NewString()
	}
	return c.uuid
}

func (c *openCVConnection) Read(frame videoframe.Frame) error {
	mat, ok := frame.DataRef().(*gocv.Mat)
	if !ok {
		return xerror.New("must pass OpenCV frame to OpenCV connection read")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isOpen {
		return ErrEndOfStream
	}

	if ok = readFromVideoConnection(c.vc, mat); !ok {
		pos, count := videoConnectionPosition(c.vc)
		return classifyReadFailure(pos, count)
	}

	if mat.Empty() {
		return ErrDecodeFailed
	}
	return nil
}

func (c *openCVConnection) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isOpen {
		return videoCaptureIsOpen(c.vc)
	}
	return false
}

func (c *openCVConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isOpen = false
	if c.isClosed {
		return nil
	}
	c.isClosed = true
	return closeVideoCapture(c.vc)
}
