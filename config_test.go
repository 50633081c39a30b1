package fsutil

import (
	"bytes"
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func setupConfigTest(t *testing.T, content []byte) (cFileName string, tearFun func()) {
	cFile, err := ioutil.TempFile("", "fsutilConfig*.yaml")
	require.Nil(t, err)
	_, err = cFile.Write(content)
	require.Nil(t, err)
	require.Nil(t, cFile.Close())
	config, logger := activeConfig, defaultLogger

	return cFile.Name(), func() {
		os.RemoveAll(cFile.Name())
		activeConfig, defaultLogger = config, logger
	}
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	config, err := LoadConfig("")
	require.Nil(t, err)
	require.Equal(t, DefaultConfig(), config)
	require.Equal(t, DefaultDirMode, config.DirMode)
}

func TestLoadConfig_File(t *testing.T) {
	content, _ := yaml.Marshal(&Config{DirMode: 0700, Concurrency: 2, LogLevel: "debug"})
	cFileName, tearFun := setupConfigTest(t, content)
	defer tearFun()

	config, err := LoadConfig(cFileName)
	require.Nil(t, err)
	require.Equal(t, os.FileMode(0700), config.DirMode)
	require.Equal(t, 2, config.Concurrency)
	require.Equal(t, "debug", config.LogLevel)
}

func TestLoadConfig_PartialKeepsDefaults(t *testing.T) {
	cFileName, tearFun := setupConfigTest(t, []byte("concurrency: 4\n"))
	defer tearFun()

	config, err := LoadConfig(cFileName)
	require.Nil(t, err)
	require.Equal(t, 4, config.Concurrency)
	require.Equal(t, DefaultDirMode, config.DirMode)
	require.Equal(t, DefaultFileMode, config.FileMode)
	require.Equal(t, DefaultLogLevel, config.LogLevel)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("does/not/exist.yaml")
	require.NotNil(t, err)

	cFileName, tearFun := setupConfigTest(t, []byte("concurrency: [1, 2\n"))
	defer tearFun()
	_, err = LoadConfig(cFileName)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), cFileName)
}

func TestConfigure(t *testing.T) {
	_, tearFun := setupConfigTest(t, nil)
	defer tearFun()

	Configure(Config{Concurrency: 3, LogLevel: "warn"})
	require.Equal(t, DefaultDirMode, ActiveConfig().DirMode)
	require.Equal(t, DefaultFileMode, ActiveConfig().FileMode)
	require.Equal(t, 3, ActiveConfig().Concurrency)

	var buf bytes.Buffer
	SetupLogger(ActiveConfig().LogLevel, &buf)
	logger := Logger()
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}
