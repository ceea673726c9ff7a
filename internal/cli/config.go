package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/stockroom/internal/httpapi"
	"github.com/mesh-intelligence/stockroom/internal/notify"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	envPrefix = "STOCKROOM"

	cfgKeyBackend      = "backend"
	cfgKeyDataDir      = "data_dir"
	cfgKeyEnv          = "env"
	cfgKeyNotifyBuffer = "notify_buffer"
	cfgKeyHTTPAddr     = "http_addr"
)

// settings is the resolved configuration for one run.
type settings struct {
	Backend      string
	DataDir      string
	Env          string
	NotifyBuffer int
	HTTPAddr     string
}

// loadSettings reads config.yaml from configDir using Viper. A missing
// config.yaml is not an error. backend, env, notify_buffer and http_addr
// can be overridden by STOCKROOM_* variables; data_dir is not bound here
// because its env override ranks below config.yaml.
func loadSettings(configDir string) (settings, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyEnv, "development")
	v.SetDefault(cfgKeyNotifyBuffer, notify.DefaultBuffer)
	v.SetDefault(cfgKeyHTTPAddr, httpapi.DefaultAddr)

	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{cfgKeyBackend, cfgKeyEnv, cfgKeyNotifyBuffer, cfgKeyHTTPAddr} {
		if err := v.BindEnv(key); err != nil {
			return settings{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	return settings{
		Backend:      v.GetString(cfgKeyBackend),
		DataDir:      v.GetString(cfgKeyDataDir),
		Env:          v.GetString(cfgKeyEnv),
		NotifyBuffer: v.GetInt(cfgKeyNotifyBuffer),
		HTTPAddr:     v.GetString(cfgKeyHTTPAddr),
	}, nil
}
