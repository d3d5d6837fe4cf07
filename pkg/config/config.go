// Package config loads the rioterm configuration file.
//
// The file lives at ~/.config/rioterm/config.toml (XDG_CONFIG_HOME
// respected) and is entirely optional: a missing file yields the defaults,
// and CLI flags override file values field by field.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/rio-labs/rioterm/pkg/layout"
)

// appName names the config directory.
const appName = "rioterm"

// Config is the full configuration file shape.
type Config struct {
	Client ClientConfig `toml:"client"`
	Server ServerConfig `toml:"server"`
	Layout LayoutConfig `toml:"layout"`
}

// ClientConfig configures the run and replay commands.
type ClientConfig struct {
	// Server is the scene server's RPC address.
	Server string `toml:"server"`

	// Scene names the scene to request. Empty means the server default.
	Scene string `toml:"scene"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	// RPCAddr is the listen address for the client channel.
	RPCAddr string `toml:"rpc_addr"`

	// HTTPAddr is the listen address for the control surface. Empty
	// disables it.
	HTTPAddr string `toml:"http_addr"`

	// DefaultScene is served to clients that do not name one.
	DefaultScene string `toml:"default_scene"`

	Sessions SessionsConfig `toml:"sessions"`
	Scenes   ScenesConfig   `toml:"scenes"`
}

// SessionsConfig selects the session store backend.
type SessionsConfig struct {
	// Backend is "memory" or "redis".
	Backend string `toml:"backend"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ScenesConfig selects the scene library backend.
type ScenesConfig struct {
	// Backend is "memory" or "mongo".
	Backend string `toml:"backend"`

	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// LayoutConfig tunes the layout scheduler.
type LayoutConfig struct {
	// AnomalyThreshold is the re-layout pass count that trips the anomaly
	// warning.
	AnomalyThreshold int `toml:"anomaly_threshold"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Client: ClientConfig{
			Server: "localhost:7333",
		},
		Server: ServerConfig{
			RPCAddr:      "localhost:7333",
			HTTPAddr:     "localhost:7334",
			DefaultScene: "demo",
			Sessions:     SessionsConfig{Backend: "memory", RedisAddr: "localhost:6379"},
			Scenes:       ScenesConfig{Backend: "memory"},
		},
		Layout: LayoutConfig{
			AnomalyThreshold: layout.DefaultThreshold,
		},
	}
}

// Path returns the config file location following the XDG convention.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file is not an error; defaults apply. Unknown keys are
// rejected so typos surface instead of silently doing nothing.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		var err error
		path, err = Path()
		if err != nil {
			return cfg, nil
		}
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}
