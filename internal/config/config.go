package config

import (
	"github.com/spf13/viper"
)

// Config holds the indexer configuration.
type Config struct {
	// Path to the view database file.
	DBPath string `mapstructure:"db_path"`
	// Path to the append-only message log to index.
	LogPath string `mapstructure:"log_path"`
	// Path to the identity secret file. Empty disables unsealing.
	SecretFile string `mapstructure:"secret_file"`

	LogLevel string `mapstructure:"log_level"`

	// Number of messages appended per transaction.
	BatchSize int `mapstructure:"batch_size"`

	PluginPaths []string `mapstructure:"plugin_paths"`

	Wasm WasmConfig `mapstructure:"wasm"`
}

// WasmConfig holds Wasm runtime configuration.
type WasmConfig struct {
	// Memory limit per processor (in pages, 64KB each).
	MemoryPages uint32 `mapstructure:"memory_pages"`
	// Enable debug logging.
	Debug bool `mapstructure:"debug"`
	// Compilation cache directory. Empty keeps compiles in memory only.
	CacheDir string `mapstructure:"cache_dir"`
}

// Load reads configuration from an optional YAML file, filling in
// defaults for anything unset.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("db_path", "./legacyview.sqlite3")
	v.SetDefault("log_path", "./log.offset")
	v.SetDefault("secret_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("batch_size", 1000)
	v.SetDefault("plugin_paths", []string{"./plugins"})

	v.SetDefault("wasm.memory_pages", 256) // 16MB
	v.SetDefault("wasm.debug", false)
	v.SetDefault("wasm.cache_dir", "")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
