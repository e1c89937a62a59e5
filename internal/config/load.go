package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tauraamui/dragoneye/pkg/configdef"
	"github.com/tauraamui/dragoneye/pkg/log"
	"github.com/tauraamui/xerror"
)

const (
	vendorName     = "tacusci"
	appName        = "dragoneye"
	configFileName = "config.json"

	configPathEnvKey = "DRAGON_EYE_CONFIG"
	modelPathEnvKey  = "DRAGON_EYE_MODEL"
	videoPathEnvKey  = "DRAGON_EYE_VIDEO"
)

var fs afero.Fs = afero.NewOsFs()

func load() (configdef.Values, error) {
	var values configdef.Values

	configPath, err := resolveConfigPath()
	if err != nil {
		return configdef.Values{}, err
	}

	log.Info("Resolved config file location: %s", configPath)
	file, err := readConfigFile(configPath)
	if err != nil {
		return configdef.Values{}, xerror.Errorf("unable to read config file %s: %w", configPath, err)
	}

	if err := unmarshal(file, &values); err != nil {
		return configdef.Values{}, err
	}

	overrideFromEnv(&values)
	loadDefaults(&values)

	if err = values.RunValidate(); err != nil {
		return configdef.Values{}, err
	}

	if err := ensureInputsExist(values); err != nil {
		return configdef.Values{}, err
	}

	return values, nil
}

func overrideFromEnv(values *configdef.Values) {
	if p := os.Getenv(modelPathEnvKey); len(p) > 0 {
		values.ModelPath = p
	}
	if p := os.Getenv(videoPathEnvKey); len(p) > 0 {
		values.VideoPath = p
	}
}

// ensureInputsExist only checks plain file paths, stream addresses
// such as rtsp:// or mock:// are left to the video backend.
func ensureInputsExist(values configdef.Values) error {
	if err := ensureFileExists(values.ModelPath); err != nil {
		return xerror.Errorf("%w: %s", configdef.ErrMissingModel, values.ModelPath)
	}

	if !strings.Contains(values.VideoPath, "://") {
		if err := ensureFileExists(values.VideoPath); err != nil {
			return xerror.Errorf("%w: %s", configdef.ErrMissingVideo, values.VideoPath)
		}
	}

	if len(values.LabelsPath) > 0 {
		if err := ensureFileExists(values.LabelsPath); err != nil {
			return xerror.Errorf("labels file does not exist: %s", values.LabelsPath)
		}
	}
	return nil
}

func ensureFileExists(path string) error {
	info, err := fs.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.New("path is a directory")
	}
	return nil
}

var readConfigFile = func(path string) ([]byte, error) {
	return afero.ReadFile(fs, path)
}

func unmarshal(content []byte, values *configdef.Values) error {
	err := json.Unmarshal(content, values)
	if err != nil {
		return pkgerrors.Errorf("parsing configuration error: %v", err)
	}
	return nil
}

func resolveConfigPath() (string, error) {
	configPath := os.Getenv(configPathEnvKey)
	if len(configPath) > 0 {
		return configPath, nil
	}

	configParentDir, err := userConfigDir()
	if err != nil {
		return "", xerror.Errorf("unable to resolve %s location: %w", configFileName, err)
	}

	return filepath.Join(
		configParentDir,
		vendorName,
		appName,
		configFileName), nil
}

var userConfigDir = func() (string, error) {
	return os.UserConfigDir()
}
