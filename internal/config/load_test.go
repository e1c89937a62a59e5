package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tauraamui/dragoneye/pkg/configdef"
)

type LoadConfigTestSuite struct {
	suite.Suite
	configResolver configdef.Resolver
	fs             afero.Fs
	path           string
	configFile     afero.File
}

func (suite *LoadConfigTestSuite) SetupSuite() {
	suite.configResolver = DefaultResolver()
}

func (suite *LoadConfigTestSuite) TearDownSuite() {
	fs = afero.NewOsFs()
}

func (suite *LoadConfigTestSuite) SetupTest() {
	// use in memory FS in implementation for tests
	suite.fs = afero.NewMemMapFs()
	fs = suite.fs

	suite.T().Setenv(configPathEnvKey, "")
	suite.T().Setenv(modelPathEnvKey, "")
	suite.T().Setenv(videoPathEnvKey, "")

	path, err := resolveConfigPath()
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), suite.fs.MkdirAll(filepath.Dir(path), os.ModeDir|os.ModePerm))
	suite.path = path

	configFile, err := suite.fs.Create(path)
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), configFile)
	suite.configFile = configFile

	require.NoError(suite.T(), afero.WriteFile(suite.fs, "/models/yolov8n.onnx", []byte{0x08}, 0666))
	require.NoError(suite.T(), afero.WriteFile(suite.fs, "/videos/street.mp4", []byte{0x00}, 0666))

	suite.overwriteTestConfig(
		`{
			"model_path": "/models/yolov8n.onnx",
			"video_path": "/videos/street.mp4",
			"quit_key": "x",
			"headless": true
		}`,
	)
}

func (suite *LoadConfigTestSuite) overwriteTestConfig(config string) {
	require.NoError(suite.T(), suite.configFile.Truncate(0))
	_, err := suite.configFile.Seek(0, 0)
	require.NoError(suite.T(), err)
	_, err = suite.configFile.WriteString(config)
	assert.NoError(suite.T(), err)
}

func (suite *LoadConfigTestSuite) TearDownTest() {
	require.NoError(suite.T(), suite.configFile.Close())
}

func (suite *LoadConfigTestSuite) TestLoadConfigAppliesDefaults() {
	config, err := suite.configResolver.Resolve()
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), configdef.Values{
		ModelPath:           "/models/yolov8n.onnx",
		VideoPath:           "/videos/street.mp4",
		InputSize:           640,
		WindowTitle:         "YoloV8 Test",
		QuitKey:             "x",
		WaitKeyMillis:       1,
		ConfidenceThreshold: 0.25,
		NMSThreshold:        0.45,
		Headless:            true,
	}, config)
}

func (suite *LoadConfigTestSuite) TestLoadConfigPathsOverriddenFromEnv() {
	require.NoError(suite.T(), afero.WriteFile(suite.fs, "/other/model.onnx", []byte{0x08}, 0666))
	suite.T().Setenv(modelPathEnvKey, "/other/model.onnx")
	suite.T().Setenv(videoPathEnvKey, "mock://street?frames=3")

	config, err := suite.configResolver.Resolve()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/other/model.onnx", config.ModelPath)
	assert.Equal(suite.T(), "mock://street?frames=3", config.VideoPath)
}

func (suite *LoadConfigTestSuite) TestLoadConfigFailsFastOnMissingModelFile() {
	suite.overwriteTestConfig(`{"model_path": "/models/missing.onnx", "video_path": "/videos/street.mp4"}`)

	config, err := suite.configResolver.Resolve()
	require.Error(suite.T(), err)
	require.Empty(suite.T(), config)

	assert.True(suite.T(), errors.Is(err, configdef.ErrMissingModel))
	assert.EqualError(suite.T(), err, "model file does not exist: /models/missing.onnx")
}

func (suite *LoadConfigTestSuite) TestLoadConfigFailsFastOnMissingVideoFile() {
	suite.overwriteTestConfig(`{"model_path": "/models/yolov8n.onnx", "video_path": "/videos/missing.mp4"}`)

	_, err := suite.configResolver.Resolve()
	require.Error(suite.T(), err)
	assert.True(suite.T(), errors.Is(err, configdef.ErrMissingVideo))
	assert.EqualError(suite.T(), err, "video file does not exist: /videos/missing.mp4")
}

func (suite *LoadConfigTestSuite) TestLoadConfigFailsOnModelPathDirectory() {
	require.NoError(suite.T(), suite.fs.MkdirAll("/models/dir.onnx", os.ModeDir|os.ModePerm))
	suite.overwriteTestConfig(`{"model_path": "/models/dir.onnx", "video_path": "/videos/street.mp4"}`)

	_, err := suite.configResolver.Resolve()
	require.Error(suite.T(), err)
	assert.True(suite.T(), errors.Is(err, configdef.ErrMissingModel))
}

func (suite *LoadConfigTestSuite) TestLoadConfigFailsValidationOnMissingModelPath() {
	suite.overwriteTestConfig(`{"video_path": "/videos/street.mp4"}`)

	config, err := suite.configResolver.Resolve()
	require.Error(suite.T(), err)
	require.Empty(suite.T(), config)
	assert.EqualError(suite.T(), err, `Validation error in field "ModelPath" of type "string" using validator "empty=false"`)
}

func (suite *LoadConfigTestSuite) TestLoadConfigFailsOnInvalidJSON() {
	suite.overwriteTestConfig(`{"model_path" "/models/yolov8n.onnx"}`)

	_, err := suite.configResolver.Resolve()
	require.Error(suite.T(), err)
	assert.EqualError(suite.T(), err, "parsing configuration error: invalid character '\"' after object key")
}

func TestLoadConfigTestSuite(t *testing.T) {
	suite.Run(t, &LoadConfigTestSuite{})
}

func TestResolveConfigPathFromEnv(t *testing.T) {
	t.Setenv(configPathEnvKey, "test/tacusci/dragoneye/config.json")
	path, err := resolveConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "test/tacusci/dragoneye/config.json", path)
}

func TestResolveConfigPathFromUserConfigDir(t *testing.T) {
	t.Setenv(configPathEnvKey, "")
	userConfigDirRef := userConfigDir
	defer func() { userConfigDir = userConfigDirRef }()
	userConfigDir = func() (string, error) { return "test", nil }

	path, err := resolveConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("test", "tacusci", "dragoneye", "config.json"), path)
}

func TestResolveConfigPathFailsOnUserConfigDirError(t *testing.T) {
	t.Setenv(configPathEnvKey, "")
	userConfigDirRef := userConfigDir
	defer func() { userConfigDir = userConfigDirRef }()
	userConfigDir = func() (string, error) { return "", errors.New("error resolving user config dir") }

	_, err := resolveConfigPath()
	require.Error(t, err)
	assert.EqualError(t, err, "unable to resolve config.json location: error resolving user config dir")
}
