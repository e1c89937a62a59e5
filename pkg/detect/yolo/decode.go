package yolo

import (
	"image"

	"github.com/tauraamui/dragoneye/pkg/detect"
	"github.com/tauraamui/dragoneye/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

// boxCoords is the count of leading attributes per anchor holding
// the centre x, centre y, width and height of the box.
const boxCoords = 4

// classOffset separates boxes of different classes before running a
// single class agnostic NMS pass, so only same class boxes suppress
// each other.
const classOffset = 7680

type candidate struct {
	class int
	score float32
	box   image.Rectangle
}

type outputDecodeSettings struct {
	inputSize int
	frame     videoframe.Dimensions
	threshold float32
}

// decodeOutput reads a YOLOv8 output tensor. The usual layout is
// [1, 4+classes, anchors], exports which transpose the tensor to
// [1, anchors, 4+classes] are also accepted.
func decodeOutput(data []float32, shape []int, settings outputDecodeSettings) ([]candidate, error) {
	if len(shape) != 3 || shape[0] != 1 {
		return nil, xerror.Errorf("unexpected model output shape: %v", shape)
	}

	attrs, anchors := shape[1], shape[2]
	transposed := false
	if attrs > anchors {
		attrs, anchors = anchors, attrs
		transposed = true
	}
	if attrs <= boxCoords {
		return nil, xerror.Errorf("model output has no class scores, shape: %v", shape)
	}
	if len(data) != attrs*anchors {
		return nil, xerror.Errorf("model output holds %d values, shape %v expects %d", len(data), shape, attrs*anchors)
	}

	at := func(attr, anchor int) float32 {
		if transposed {
			return data[anchor*attrs+attr]
		}
		return data[attr*anchors+anchor]
	}

	scaleX := float32(settings.frame.W) / float32(settings.inputSize)
	scaleY := float32(settings.frame.H) / float32(settings.inputSize)
	bounds := image.Rect(0, 0, settings.frame.W, settings.frame.H)

	candidates := []candidate{}
	for i := 0; i < anchors; i++ {
		bestClass, bestScore := -1, float32(0)
		for c := boxCoords; c < attrs; c++ {
			if score := at(c, i); score > bestScore {
				bestClass, bestScore = c-boxCoords, score
			}
		}
		if bestClass < 0 || bestScore < settings.threshold {
			continue
		}

		cx, cy, w, h := at(0, i), at(1, i), at(2, i), at(3, i)
		box := image.Rect(
			int((cx-w/2)*scaleX), int((cy-h/2)*scaleY),
			int((cx+w/2)*scaleX), int((cy+h/2)*scaleY),
		).Intersect(bounds)
		if box.Empty() {
			continue
		}

		candidates = append(candidates, candidate{class: bestClass, score: bestScore, box: box})
	}

	return candidates, nil
}

// suppress runs per class non-maximum suppression over the candidates.
func suppress(candidates []candidate, scoreThreshold, nmsThreshold float32, labels detect.Labels) []detect.Detection {
	if len(candidates) == 0 {
		return []detect.Detection{}
	}

	boxes := make([]image.Rectangle, len(candidates))
	scores := make([]float32, len(candidates))
	for i, c := range candidates {
		offset := image.Pt(c.class*classOffset, c.class*classOffset)
		boxes[i] = c.box.Add(offset)
		scores[i] = c.score
	}

	indices := nmsBoxes(boxes, scores, scoreThreshold, nmsThreshold)

	detections := make([]detect.Detection, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(candidates) {
			continue
		}
		c := candidates[idx]
		detections = append(detections, detect.Detection{
			Class:      c.class,
			Label:      labels.Name(c.class),
			Confidence: c.score,
			Box:        c.box,
		})
	}
	return detections
}

var nmsBoxes = func(boxes []image.Rectangle, scores []float32, scoreThreshold, nmsThreshold float32) []int {
	return gocv.NMSBoxes(boxes, scores, scoreThreshold, nmsThreshold)
}
