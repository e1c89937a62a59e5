package config

import "github.com/tauraamui/dragoneye/pkg/configdef"

type defaultSettingKey uint

const (
	INPUTSIZE           defaultSettingKey = 0x0
	WINDOWTITLE         defaultSettingKey = 0x1
	QUITKEY             defaultSettingKey = 0x2
	WAITKEYMILLIS       defaultSettingKey = 0x3
	CONFIDENCETHRESHOLD defaultSettingKey = 0x4
	NMSTHRESHOLD        defaultSettingKey = 0x5
)

var defaultSettings = map[defaultSettingKey]interface{}{
	INPUTSIZE:           640,
	WINDOWTITLE:         "YoloV8 Test",
	QUITKEY:             "q",
	WAITKEYMILLIS:       1,
	CONFIDENCETHRESHOLD: float32(0.25),
	NMSTHRESHOLD:        float32(0.45),
}

// loadDefaults fills zero value fields, thresholds of exactly
// zero are treated as unset.
func loadDefaults(values *configdef.Values) {
	if values.InputSize == 0 {
		values.InputSize = defaultSettings[INPUTSIZE].(int)
	}
	if len(values.WindowTitle) == 0 {
		values.WindowTitle = defaultSettings[WINDOWTITLE].(string)
	}
	if len(values.QuitKey) == 0 {
		values.QuitKey = defaultSettings[QUITKEY].(string)
	}
	if values.WaitKeyMillis == 0 {
		values.WaitKeyMillis = defaultSettings[WAITKEYMILLIS].(int)
	}
	if values.ConfidenceThreshold == 0 {
		values.ConfidenceThreshold = defaultSettings[CONFIDENCETHRESHOLD].(float32)
	}
	if values.NMSThreshold == 0 {
		values.NMSThreshold = defaultSettings[NMSTHRESHOLD].(float32)
	}
}
