package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/tauraamui/dragoneye/pkg/configdef"
	"github.com/tauraamui/xerror"
)

func create() error {
	data, err := loadRawDefaultConfig()
	if err != nil {
		return xerror.Errorf("unable to init default config into memory: %w", err)
	}

	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if err := ensureParentDirExists(path); err != nil {
		return err
	}

	err = writeConfigToDisk(data, path, false)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return configdef.ErrConfigAlreadyExists
		}
		return err
	}

	return nil
}

func writeConfigToDisk(data []byte, path string, overwrite bool) error {
	flags := os.O_RDWR | os.O_CREATE
	if !overwrite {
		flags |= os.O_EXCL
	}

	file, err := fs.OpenFile(path, flags, 0666)
	if err != nil {
		return xerror.Errorf("unable to create/open file: %w", err)
	}
	defer file.Close()

	bc, err := file.Write(data)
	if err != nil {
		return xerror.Errorf("unable to write config to file: %s: %w", path, err)
	}

	if bc != len(data) {
		return xerror.Errorf("unable to write full config data to file: %s", path)
	}

	return nil
}

func loadRawDefaultConfig() ([]byte, error) {
	values := configdef.Values{
		ModelPath: "yolov8n.onnx",
		VideoPath: "video.mp4",
	}
	loadDefaults(&values)
	return json.MarshalIndent(values, "", " ")
}

func ensureParentDirExists(path string) error {
	parentDirPath := filepath.Dir(path)
	if _, err := fs.Stat(parentDirPath); errors.Is(err, os.ErrNotExist) {
		if err := fs.MkdirAll(parentDirPath, os.ModeDir|os.ModePerm); err != nil {
			return xerror.Errorf("unable to create config parent directory: %w", err)
		}
	}
	return nil
}
