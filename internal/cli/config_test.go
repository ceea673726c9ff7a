package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/stockroom/internal/httpapi"
	"github.com/mesh-intelligence/stockroom/internal/notify"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
}

func TestLoadSettings(t *testing.T) {
	tests := []struct {
		name   string
		config string
		env    map[string]string
		want   settings
	}{
		{
			name: "defaults without config file",
			want: settings{
				Backend:      types.BackendSQLite,
				Env:          "development",
				NotifyBuffer: notify.DefaultBuffer,
				HTTPAddr:     httpapi.DefaultAddr,
			},
		},
		{
			name:   "config file values",
			config: "backend: sqlite\ndata_dir: /srv/stock\nnotify_buffer: 64\nhttp_addr: :9000\nenv: production\n",
			want: settings{
				Backend:      types.BackendSQLite,
				DataDir:      "/srv/stock",
				Env:          "production",
				NotifyBuffer: 64,
				HTTPAddr:     ":9000",
			},
		},
		{
			name:   "environment overrides config",
			config: "http_addr: :9000\n",
			env: map[string]string{
				"STOCKROOM_HTTP_ADDR":     ":7000",
				"STOCKROOM_NOTIFY_BUFFER": "4",
			},
			want: settings{
				Backend:      types.BackendSQLite,
				Env:          "development",
				NotifyBuffer: 4,
				HTTPAddr:     ":7000",
			},
		},
		{
			name:   "data dir env is left to path resolution",
			config: "data_dir: /from/config\n",
			env:    map[string]string{"STOCKROOM_DATA_DIR": "/from/env"},
			want: settings{
				Backend:      types.BackendSQLite,
				DataDir:      "/from/config",
				Env:          "development",
				NotifyBuffer: notify.DefaultBuffer,
				HTTPAddr:     httpapi.DefaultAddr,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STOCKROOM_ENV", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			dir := t.TempDir()
			if tt.config != "" {
				writeConfig(t, dir, tt.config)
			}

			got, err := loadSettings(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadSettingsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "backend: [unterminated\n")

	_, err := loadSettings(dir)
	assert.Error(t, err)
}
