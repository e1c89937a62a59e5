// Package eye wires a configured video source, detection model and
// display into a single frame loop run.
package eye

import (
	"context"

	"github.com/google/uuid"
	"github.com/tauraamui/dragoneye/pkg/configdef"
	"github.com/tauraamui/dragoneye/pkg/detect"
	"github.com/tauraamui/dragoneye/pkg/detect/yolo"
	"github.com/tauraamui/dragoneye/pkg/display"
	"github.com/tauraamui/dragoneye/pkg/frameloop"
	"github.com/tauraamui/dragoneye/pkg/log"
	"github.com/tauraamui/dragoneye/pkg/video/videobackend"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

func Run(ctx context.Context, values configdef.Values, backend videobackend.Backend) (frameloop.Stats, error) {
	if err := values.RunValidate(); err != nil {
		return frameloop.Stats{}, err
	}

	runID := uuid.NewString()
	log.Info("Starting run [%s] on video: %s", runID, values.VideoPath)

	conn, err := backend.Open(ctx, values.VideoPath)
	if err != nil {
		return frameloop.Stats{}, xerror.Errorf("unable to open video source %s: %w", values.VideoPath, err)
	}

	labels, err := loadLabels(values.LabelsPath)
	if err != nil {
		closeSource(conn)
		return frameloop.Stats{}, err
	}

	detector, err := loadDetector(yolo.Settings{
		ModelPath:           values.ModelPath,
		Labels:              labels,
		InputSize:           values.InputSize,
		ConfidenceThreshold: values.ConfidenceThreshold,
		NMSThreshold:        values.NMSThreshold,
	})
	if err != nil {
		closeSource(conn)
		return frameloop.Stats{}, err
	}
	defer func() {
		if err := detector.Close(); err != nil {
			log.Error("Unable to release detection model: %s", err.Error())
		}
	}()

	loop := frameloop.New(frameloop.Settings{
		Source:        cancellableSource{ctx: ctx, Connection: conn},
		Frames:        backend,
		Detector:      detector,
		Sink:          openSink(values),
		InputSize:     values.InputSize,
		QuitKey:       values.QuitKeyCode(),
		WaitKeyMillis: values.WaitKeyMillis,
	})

	stats, err := loop.Run()
	if err != nil {
		log.Error("Run [%s] failed after %d frames: %s", runID, stats.Displayed, err.Error())
		return stats, err
	}
	log.Info("Run [%s] finished after %d frames: %s", runID, stats.Displayed, stats.Reason)
	return stats, nil
}

var loadLabels = func(path string) (detect.Labels, error) {
	return detect.LoadLabels(path)
}

var loadDetector = func(settings yolo.Settings) (detect.Detector, error) {
	model, err := yolo.Load(settings)
	if err != nil {
		return nil, err
	}
	return model, nil
}

var openSink = func(values configdef.Values) frameloop.Sink {
	if values.Headless {
		return display.Headless()
	}
	return display.Window(values.WindowTitle)
}

func closeSource(conn videobackend.Connection) {
	if err := conn.Close(); err != nil {
		log.Error("Unable to release video source: %s", err.Error())
	}
}

// cancellableSource ends the stream once ctx is done so an interrupted
// run still passes through the loop's normal release path.
type cancellableSource struct {
	ctx context.Context
	videobackend.Connection
}

func (s cancellableSource) Read(frame videoframe.Frame) error {
	select {
	case <-s.ctx.Done():
		log.Warn("Video source [%s] read cancelled: %s", s.UUID(), s.ctx.Err().Error())
		return videobackend.ErrEndOfStream
	default:
		return s.Connection.Read(frame)
	}
}
