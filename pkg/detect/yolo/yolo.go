// Package yolo runs YOLOv8 ONNX object detection models through the
// OpenCV DNN module.
package yolo

import (
	"image"

	"github.com/spf13/afero"
	"github.com/tauraamui/dragoneye/pkg/detect"
	"github.com/tauraamui/dragoneye/pkg/log"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

var fs afero.Fs = afero.NewOsFs()

type Settings struct {
	ModelPath           string
	Labels              detect.Labels
	InputSize           int
	ConfidenceThreshold float32
	NMSThreshold        float32
}

type Model struct {
	net      gocv.Net
	settings Settings
	isClosed bool
}

func Load(settings Settings) (*Model, error) {
	if settings.InputSize <= 0 {
		return nil, xerror.Errorf("model input size must be positive, got: %d", settings.InputSize)
	}
	if len(settings.Labels) == 0 {
		settings.Labels = detect.COCOLabels()
	}

	if _, err := fs.Stat(settings.ModelPath); err != nil {
		return nil, xerror.Errorf("model file not found: %s: %w", settings.ModelPath, err)
	}

	net := readNet(settings.ModelPath)
	if net.Empty() {
		net.Close()
		return nil, xerror.Errorf("unable to load model network from: %s", settings.ModelPath)
	}

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, xerror.Errorf("unable to set model backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, xerror.Errorf("unable to set model target: %w", err)
	}

	log.Info("Loaded detection model: %s", settings.ModelPath)
	return &Model{net: net, settings: settings}, nil
}

var readNet = func(path string) gocv.Net {
	return gocv.ReadNetFromONNX(path)
}

func (m *Model) InputSize() int { return m.settings.InputSize }

// Detect runs a single synchronous forward pass. The returned result
// references frame, so frame must outlive the result.
func (m *Model) Detect(frame videoframe.NoCloser) (detect.Result, error) {
	if m.isClosed {
		return nil, xerror.New("detection model is closed")
	}

	mat, ok := frame.DataRef().(*gocv.Mat)
	if !ok {
		return nil, xerror.New("must pass OpenCV frame to YOLO model")
	}
	if mat.Empty() {
		return nil, xerror.New("cannot run detection on empty frame")
	}

	size := m.settings.InputSize
	blob := gocv.BlobFromImage(*mat, 1.0/255.0, image.Pt(size, size), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	m.net.SetInput(blob, "")
	output := m.net.Forward("")
	defer output.Close()

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, xerror.Errorf("unable to read model output: %w", err)
	}

	dims := frame.Dimensions()
	candidates, err := decodeOutput(data, output.Size(), outputDecodeSettings{
		inputSize: size,
		frame:     dims,
		threshold: m.settings.ConfidenceThreshold,
	})
	if err != nil {
		return nil, err
	}

	detections := suppress(candidates, m.settings.ConfidenceThreshold, m.settings.NMSThreshold, m.settings.Labels)
	log.Debug("Model found %d detections from %d candidates", len(detections), len(candidates))

	return &result{source: mat, detections: detections}, nil
}

func (m *Model) Close() error {
	if m.isClosed {
		return nil
	}
	m.isClosed = true
	return m.net.Close()
}
