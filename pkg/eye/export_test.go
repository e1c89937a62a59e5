package eye

import (
	"github.com/tauraamui/dragoneye/pkg/configdef"
	"github.com/tauraamui/dragoneye/pkg/detect"
	"github.com/tauraamui/dragoneye/pkg/detect/yolo"
	"github.com/tauraamui/dragoneye/pkg/frameloop"
)

func OverloadLoadDetector(overload func(yolo.Settings) (detect.Detector, error)) func() {
	loadDetectorRef := loadDetector
	loadDetector = overload
	return func() { loadDetector = loadDetectorRef }
}

func OverloadLoadLabels(overload func(string) (detect.Labels, error)) func() {
	loadLabelsRef := loadLabels
	loadLabels = overload
	return func() { loadLabels = loadLabelsRef }
}

func OverloadOpenSink(overload func(configdef.Values) frameloop.Sink) func() {
	openSinkRef := openSink
	openSink = overload
	return func() { openSink = openSinkRef }
}
