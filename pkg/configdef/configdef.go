package configdef

import (
	"errors"
	"fmt"
	"unicode"

	"gopkg.in/dealancer/validate.v2"
)

type Values struct {
	ModelPath           string  `json:"model_path" validate:"empty=false"`
	VideoPath           string  `json:"video_path" validate:"empty=false"`
	LabelsPath          string  `json:"labels_path"`
	InputSize           int     `json:"input_size" validate:"gte=32 & lte=4096"`
	WindowTitle         string  `json:"window_title"`
	QuitKey             string  `json:"quit_key"`
	WaitKeyMillis       int     `json:"wait_key_millis" validate:"gte=1 & lte=1000"`
	ConfidenceThreshold float32 `json:"confidence_threshold"`
	NMSThreshold        float32 `json:"nms_threshold"`
	Headless            bool    `json:"headless"`
}

func (v Values) RunValidate() error {
	if err := validate.Validate(&v); err != nil {
		return err
	}
	return v.Validate()
}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if len(v.ModelPath) == 0 {
		return fmt.Errorf(validationErrorHeader, errors.New("model path must not be empty"))
	}
	if len(v.VideoPath) == 0 {
		return fmt.Errorf(validationErrorHeader, errors.New("video path must not be empty"))
	}
	if v.InputSize%32 != 0 {
		return fmt.Errorf(validationErrorHeader, errors.New("input size must be a multiple of 32"))
	}
	if len([]rune(v.QuitKey)) != 1 {
		return fmt.Errorf(validationErrorHeader, errors.New("quit key must be a single character"))
	}
	// WaitKey reports the low byte of the key code
	if v.QuitKey[0] > unicode.MaxASCII {
		return fmt.Errorf(validationErrorHeader, errors.New("quit key must be an ASCII character"))
	}
	if !inUnitRange(v.ConfidenceThreshold) {
		return fmt.Errorf(validationErrorHeader, errors.New("confidence threshold must be between 0 and 1"))
	}
	if !inUnitRange(v.NMSThreshold) {
		return fmt.Errorf(validationErrorHeader, errors.New("nms threshold must be between 0 and 1"))
	}
	return nil
}

// QuitKeyCode is the key code WaitKey reports for the configured quit key.
func (v Values) QuitKeyCode() int {
	for _, r := range v.QuitKey {
		return int(r) & 0xFF
	}
	return -1
}

func inUnitRange(f float32) bool {
	return f >= 0 && f <= 1
}
