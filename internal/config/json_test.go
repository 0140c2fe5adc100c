package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")

	jsonBody := `{
		"app": { "log_level": "debug" },
		"crypto": {
			"algorithm": "AES-GCM",
			"kdf": "PBKDF2",
			"hash": "SHA-256",
			"iterations": 600000
		},
		"session": {
			"mode": "timed-password",
			"timeout": "1h",
			"timed_window": "45s"
		},
		"storage": {
			"db": { "dsn": "vault.db" },
			"files": { "dir": "/var/notes" }
		}
	}`
	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "SHA-256", cfg.Crypto.Hash)
	assert.Equal(t, 600000, cfg.Crypto.Iterations)
	assert.Equal(t, "timed-password", cfg.Session.Mode)
	assert.Equal(t, time.Hour, cfg.Session.Timeout)
	assert.Equal(t, 45*time.Second, cfg.Session.TimedWindow)
	assert.Equal(t, "vault.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "/var/notes", cfg.Storage.Files.Dir)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading a json file")
}

func TestParseJSON_Malformed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"session": `), 0o600))

	_, err := parseJSON(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", input: `"90s"`, want: 90 * time.Second},
		{name: "nanoseconds", input: `1000`, want: time.Microsecond},
		{name: "bad string", input: `"soon"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalJSON([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}
