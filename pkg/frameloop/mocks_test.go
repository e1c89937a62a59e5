package frameloop_test

import (
	"errors"

	"github.com/tauraamui/dragoneye/pkg/detect"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
)

type mockFrame struct {
	data    []byte
	dims    videoframe.Dimensions
	closed  int
	onClose func()
}

func (m *mockFrame) DataRef() interface{}              { return m.data }
func (m *mockFrame) Dimensions() videoframe.Dimensions { return m.dims }
func (m *mockFrame) Close() {
	m.closed++
	if m.onClose != nil {
		m.onClose()
	}
}

type mockFrames struct {
	created  []*mockFrame
	resizes  []videoframe.Dimensions
	resizeFn func(src videoframe.NoCloser, to videoframe.Dimensions) error
}

func (m *mockFrames) NewFrame() videoframe.Frame {
	f := &mockFrame{}
	m.created = append(m.created, f)
	return f
}

func (m *mockFrames) Resize(src videoframe.NoCloser, dst videoframe.Frame, to videoframe.Dimensions) error {
	if m.resizeFn != nil {
		if err := m.resizeFn(src, to); err != nil {
			return err
		}
	}
	if src.Dimensions().Empty() {
		return errors.New("cannot resize empty frame")
	}
	m.resizes = append(m.resizes, src.Dimensions())
	d := dst.(*mockFrame)
	d.data = src.DataRef().([]byte)
	d.dims = to
	return nil
}

// mockSource yields one frame per entry in dims, then finishes
// with endErr, which defaults to end of stream.
type mockSource struct {
	dims   []videoframe.Dimensions
	endErr error
	reads  int
	closed int
}

func newMockSource(count int, dims videoframe.Dimensions) *mockSource {
	s := &mockSource{}
	for i := 0; i < count; i++ {
		s.dims = append(s.dims, dims)
	}
	return s
}

func (s *mockSource) Read(frame videoframe.Frame) error {
	s.reads++
	if s.reads > len(s.dims) {
		if s.endErr != nil {
			return s.endErr
		}
		return videoframe.ErrEndOfStream
	}
	f := frame.(*mockFrame)
	f.data = []byte{byte(s.reads)}
	f.dims = s.dims[s.reads-1]
	return nil
}

func (s *mockSource) Close() error {
	s.closed++
	return nil
}

type mockResult struct {
	source     *mockFrame
	detections []detect.Detection
	plotErr    error
}

func (r *mockResult) Detections() []detect.Detection { return r.detections }
func (r *mockResult) Plot(dst videoframe.Frame) error {
	if r.plotErr != nil {
		return r.plotErr
	}
	d := dst.(*mockFrame)
	d.data = append([]byte{0xAA}, r.source.data...)
	d.dims = r.source.dims
	return nil
}

type mockDetector struct {
	seen      []videoframe.Dimensions
	detectErr error
	plotErr   error
	closed    int
}

func (d *mockDetector) Detect(frame videoframe.NoCloser) (detect.Result, error) {
	d.seen = append(d.seen, frame.Dimensions())
	if d.detectErr != nil {
		return nil, d.detectErr
	}
	src := &mockFrame{data: frame.DataRef().([]byte), dims: frame.Dimensions()}
	return &mockResult{source: src, plotErr: d.plotErr}, nil
}

func (d *mockDetector) Close() error {
	d.closed++
	return nil
}

// mockSink reports keys[i] for the i'th WaitKey call, -1 beyond them.
type mockSink struct {
	shown     [][]byte
	shownDims []videoframe.Dimensions
	keys      map[int]int
	waits     int
	closed    int
	closeErr  error
}

func (s *mockSink) Show(frame videoframe.NoCloser) error {
	s.shown = append(s.shown, frame.DataRef().([]byte))
	s.shownDims = append(s.shownDims, frame.Dimensions())
	return nil
}

func (s *mockSink) WaitKey(int) int {
	s.waits++
	if key, ok := s.keys[s.waits]; ok {
		return key
	}
	return -1
}

func (s *mockSink) Close() error {
	s.closed++
	return s.closeErr
}
