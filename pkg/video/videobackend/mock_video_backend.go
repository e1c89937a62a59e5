package videobackend

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"net/url"
	"strconv"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

const (
	mockScheme        = "mock"
	mockCanvasWidth   = 600
	mockCanvasHeight  = 400
	unlimitedMockSize = -1
)

type mockVideoBackend struct{}

// Open accepts addresses of the form mock://<label>?frames=N&w=W&h=H,
// a missing frames param produces frames until closed.
func (b *mockVideoBackend) Open(cancel context.Context, addr string) (Connection, error) {
	settings, err := parseMockAddress(addr)
	if err != nil {
		return nil, err
	}
	return &mockVideoConnection{settings: settings, isOpen: true}, nil
}

func (b *mockVideoBackend) NewFrame() videoframe.Frame {
	return &openCVFrame{mat: gocv.NewMat()}
}

func (b *mockVideoBackend) Resize(src videoframe.NoCloser, dst videoframe.Frame, to videoframe.Dimensions) error {
	return resizeMat(src, dst, to)
}

type mockSettings struct {
	label  string
	frames int
	dims   videoframe.Dimensions
}

func parseMockAddress(addr string) (mockSettings, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return mockSettings{}, xerror.Errorf("invalid mock stream address: %w", err)
	}
	if u.Scheme != mockScheme {
		return mockSettings{}, xerror.Errorf("scheme: %s is unsupported by mock backend", u.Scheme)
	}

	settings := mockSettings{
		label:  u.Host,
		frames: unlimitedMockSize,
		dims:   videoframe.Dimensions{W: mockCanvasWidth, H: mockCanvasHeight},
	}

	q := u.Query()
	for key, dst := range map[string]*int{"frames": &settings.frames, "w": &settings.dims.W, "h": &settings.dims.H} {
		v := q.Get(key)
		if len(v) == 0 {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return mockSettings{}, xerror.Errorf("mock stream param %s must be a non-negative integer, got: %s", key, v)
		}
		*dst = n
	}

	if settings.dims.Empty() {
		return mockSettings{}, xerror.Errorf("mock stream dimensions %dx%d are invalid", settings.dims.W, settings.dims.H)
	}

	return settings, nil
}

type mockVideoConnection struct {
	uuid                    string
	mu                      sync.Mutex
	settings                mockSettings
	isOpen                  bool
	framesRead              int
	renderedBaseFrameCanvas bool
	baseFrameCanvas         image.Image
}

func (mvc *mockVideoConnection) UUID() string {
	if len(mvc.uuid) == 0 {
		mvc.uuid = uuid.NewString()
	}
	return mvc.uuid
}

func (mvc *mockVideoConnection) Read(frame videoframe.Frame) error {
	frameMatRef, ok := frame.DataRef().(*gocv.Mat)
	if !ok {
		return xerror.New("must pass OpenCV frame to MockVideo connection read")
	}

	mvc.mu.Lock()
	defer mvc.mu.Unlock()

	if !mvc.isOpen {
		return ErrEndOfStream
	}

	if mvc.settings.frames != unlimitedMockSize && mvc.framesRead >= mvc.settings.frames {
		return ErrEndOfStream
	}

	if !mvc.renderedBaseFrameCanvas {
		mvc.baseFrameCanvas = renderBaseFrameCanvas()
		mvc.renderedBaseFrameCanvas = true
	}

	img, err := drawTextLayerOntoBaseFrameClone(
		mvc.baseFrameCanvas, mvc.settings.label, mvc.framesRead,
	)
	if err != nil {
		return err
	}

	if img.Bounds().Dx() != mvc.settings.dims.W || img.Bounds().Dy() != mvc.settings.dims.H {
		img = imaging.Resize(img, mvc.settings.dims.W, mvc.settings.dims.H, imaging.Linear)
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return xerror.Errorf("unable to convert Go image into OpenCV mat: %w", err)
	}
	defer mat.Close()

	if err := copyMat(&mat, frameMatRef); err != nil {
		return xerror.Errorf("unable to copy mock frame into read target: %w", err)
	}
	mvc.framesRead++

	return nil
}

func (mvc *mockVideoConnection) IsOpen() bool {
	mvc.mu.Lock()
	defer mvc.mu.Unlock()
	return mvc.isOpen
}

func (mvc *mockVideoConnection) Close() error {
	mvc.mu.Lock()
	defer mvc.mu.Unlock()
	mvc.isOpen = false
	mvc.renderedBaseFrameCanvas = false
	mvc.baseFrameCanvas = nil
	return nil
}

func drawTextLayerOntoBaseFrameClone(base image.Image, label string, frameIndex int) (image.Image, error) {
	baseClone := imaging.Clone(base)
	err := drawText(baseClone, 5, 50, "DE_MOCK_STREAM")
	if err != nil {
		return nil, xerror.Errorf("unable to draw text onto in-mem image for mock stream: %w", err)
	}

	err = drawText(baseClone, 5, 180, label)
	if err != nil {
		return nil, xerror.Errorf("unable to draw text onto in-mem image for mock stream: %w", err) //nolint
	}
	err = drawText(baseClone, 5, 310, fmt.Sprintf("FRAME %d", frameIndex))
	if err != nil {
		return nil, xerror.Errorf("unable to draw text onto in-mem image for mock stream: %w", err) //nolint
	}
	return baseClone, nil
}

func renderBaseFrameCanvas() image.Image {
	var w, h int = mockCanvasWidth, mockCanvasHeight
	var hw, hh float64 = float64(w / 2), float64(h / 2)
	r := 200.0
	θ := 2 * math.Pi / 3
	cr := &circle{hw - r*math.Sin(0), hh - r*math.Cos(0), 300}
	cg := &circle{hw - r*math.Sin(θ), hh - r*math.Cos(θ), 300}
	cb := &circle{hw - r*math.Sin(-θ), hh - r*math.Cos(-θ), 300}

	img := imaging.New(w, h, color.Black)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{
				cr.Brightness(float64(x), float64(y)),
				cg.Brightness(float64(x), float64(y)),
				cb.Brightness(float64(x), float64(y)),
				255,
			})
		}
	}
	return img
}

var (
	parseFontOnce sync.Once
	mockFontFace  *truetype.Font
	mockFontErr   error
)

func drawText(canvas *image.NRGBA, x, y int, text string) error {
	parseFontOnce.Do(func() {
		mockFontFace, mockFontErr = freetype.ParseFont(goregular.TTF)
	})
	if mockFontErr != nil {
		return mockFontErr
	}

	fontDrawer := &font.Drawer{
		Dst: canvas,
		Src: image.White,
		Face: truetype.NewFace(mockFontFace, &truetype.Options{
			Size:    64.0,
			Hinting: font.HintingFull,
		}),
	}
	textBounds, _ := fontDrawer.BoundString(text)
	textHeight := textBounds.Max.Y - textBounds.Min.Y
	yPosition := fixed.I((y)-textHeight.Ceil())/2 + fixed.I(textHeight.Ceil())
	fontDrawer.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: yPosition,
	}
	fontDrawer.DrawString(text)
	return nil
}

type circle struct {
	X, Y, R float64
}

func (c *circle) Brightness(x, y float64) uint8 {
	var dx, dy float64 = c.X - x, c.Y - y
	d := math.Sqrt(dx*dx+dy*dy) / c.R
	if d > 1 {
		return 0
	}
	return 255
}
