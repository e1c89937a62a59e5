package detect

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/tauraamui/xerror"
)

var fs afero.Fs = afero.NewOsFs()

type Labels []string

// Name returns the label for the class index, unknown classes are
// named by their index.
func (l Labels) Name(class int) string {
	if class >= 0 && class < len(l) {
		return l[class]
	}
	return fmt.Sprintf("class%d", class)
}

// LoadLabels reads one label per line, blank lines are skipped. An empty
// path returns the COCO labels.
func LoadLabels(path string) (Labels, error) {
	if len(path) == 0 {
		return COCOLabels(), nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, xerror.Errorf("unable to read labels file: %w", err)
	}

	labels := Labels{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}
		labels = append(labels, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, xerror.Errorf("unable to parse labels file: %w", err)
	}

	if len(labels) == 0 {
		return nil, xerror.Errorf("labels file %s contains no labels", path)
	}
	return labels, nil
}

func COCOLabels() Labels {
	return Labels{
		"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat",
		"traffic light", "fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat",
		"dog", "horse", "sheep", "cow", "elephant", "bear", "zebra", "giraffe", "backpack",
		"umbrella", "handbag", "tie", "suitcase", "frisbee", "skis", "snowboard", "sports ball",
		"kite", "baseball bat", "baseball glove", "skateboard", "surfboard", "tennis racket",
		"bottle", "wine glass", "cup", "fork", "knife", "spoon", "bowl", "banana", "apple",
		"sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair",
		"couch", "potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
		"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink",
		"refrigerator", "book", "clock", "vase", "scissors", "teddy bear", "hair drier",
		"toothbrush",
	}
}
