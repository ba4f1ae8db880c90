package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withFlags(t *testing.T, cfgPath, camera, telemetryAddr string, debug bool) {
	t.Helper()
	oldCfg, oldCam, oldTel, oldDebug := *configFlag, *cameraFlag, *telemetryFlag, *debugFlag
	t.Cleanup(func() {
		*configFlag, *cameraFlag, *telemetryFlag, *debugFlag = oldCfg, oldCam, oldTel, oldDebug
	})
	*configFlag, *cameraFlag, *telemetryFlag, *debugFlag = cfgPath, camera, telemetryAddr, debug
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drive.toml")
	require.NoError(t, os.WriteFile(path, []byte("[camera]\npreset = \"cinematic\"\n"), 0o644))
	withFlags(t, path, "chase", "127.0.0.1:9999", true)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "chase", cfg.Camera.Preset)
	assert.True(t, cfg.Log.Debug)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "127.0.0.1:9999", cfg.Telemetry.Addr)
}

func TestLoadConfigRejectsBadCamera(t *testing.T) {
	withFlags(t, "", "orbit", "", false)
	t.Chdir(t.TempDir())

	_, err := loadConfig()
	assert.ErrorContains(t, err, "camera")
}

func TestLoadConfigMissingFile(t *testing.T) {
	withFlags(t, filepath.Join(t.TempDir(), "nope.toml"), "", "", false)

	_, err := loadConfig()
	assert.Error(t, err)
}

func TestWriteCrash(t *testing.T) {
	var buf bytes.Buffer
	writeCrash(&buf, "DRIVE CRASHED", "boom", []byte("goroutine 1"))
	assert.Contains(t, buf.String(), "DRIVE CRASHED: boom")
	assert.Contains(t, buf.String(), "goroutine 1")
}
