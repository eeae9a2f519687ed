package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	DefaultPath  = "~/.dayplan/dayplan.db"
	DefaultState = "~/.dayplan/state"
	DefaultEvery = "1h"

	// ConfigName is the config file name without extension.
	ConfigName = ".dayplan"
)

// Config locates the database and client-local state.
type Config interface {
	DatabasePath() string
	StatePath() string
	WatchEvery() string
}

// LoadConfig reads .dayplan.{toml,yaml,json} from DAYPLAN_CONFIG_PATH or the
// working directory, with DAYPLAN_* environment overrides.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", DefaultPath)
	viper.SetDefault("state", DefaultState)
	viper.SetDefault("watch.every", DefaultEvery)
	viper.SetConfigName(ConfigName)
	viper.SetEnvPrefix("DAYPLAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if override := os.Getenv("DAYPLAN_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	state, err := homedir.Expand(viper.GetString("state"))
	if err != nil {
		return nil, fmt.Errorf("store: expand state: %w", err)
	}
	return &FileConfig{Path: path, State: state, Watch: WatchConfig{Every: viper.GetString("watch.every")}}, nil
}

// FileConfig is the on-disk shape of the config file.
type FileConfig struct {
	Path  string      `json:"path" toml:"path" yaml:"path"`
	State string      `json:"state" toml:"state" yaml:"state"`
	Watch WatchConfig `json:"watch" toml:"watch" yaml:"watch"`
}

type WatchConfig struct {
	Every string `json:"every" toml:"every" yaml:"every"`
}

func (f *FileConfig) DatabasePath() string { return f.Path }
func (f *FileConfig) StatePath() string    { return f.State }
func (f *FileConfig) WatchEvery() string   { return f.Watch.Every }

// DefaultConfig is the config written by WriteConfig when nothing is given.
func DefaultConfig() *FileConfig {
	return &FileConfig{Path: DefaultPath, State: DefaultState, Watch: WatchConfig{Every: DefaultEvery}}
}

// WriteConfig writes cfg as TOML to dir/.dayplan.toml. An existing file is
// left alone unless force is set.
func WriteConfig(dir string, cfg *FileConfig, force bool) (string, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	path := filepath.Join(dir, ConfigName+".toml")
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("store: %s already exists", path)
		}
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("store: encode config: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("store: ensure config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("store: write config: %w", err)
	}
	return path, nil
}
