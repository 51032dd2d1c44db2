package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_WritesRotatedFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "logs", "careerbot.log")
	logger, err := New(Options{Level: "debug", FilePath: p})
	require.NoError(t, err)

	logger.Info("chat saved")
	_ = logger.Sync()

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"chat saved"`)
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	require.Error(t, err)
}
