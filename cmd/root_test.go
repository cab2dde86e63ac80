package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	awsclient "github.com/yourusername/s3-file-exporter/aws"
	"github.com/yourusername/s3-file-exporter/config"
	"github.com/yourusername/s3-file-exporter/minio"
)

func TestNewLister(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	cfg := config.NewDefault()
	cfg.Bucket = "b"
	cfg.Folders = []string{"logs"}
	cfg.HostBase = "localhost:9000"

	lister, err := newLister(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &awsclient.Client{}, lister)

	cfg.Driver = config.DriverMinIO
	lister, err = newLister(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &minio.Driver{}, lister)
}

func TestRunExporter_ConfigErrors(t *testing.T) {
	t.Run("no config", func(t *testing.T) {
		configPath = ""
		err := runExporter(rootCmd, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config file is required")
	})

	t.Run("incomplete config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("folders: [logs]\n"), 0600))

		err := runExporter(rootCmd, []string{path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("bad log level flag", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("bucket: b\nfolders: [logs]\n"), 0600))

		logLevel = "loud"
		defer func() { logLevel = "" }()

		err := runExporter(rootCmd, []string{path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
