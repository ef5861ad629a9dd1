package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`

	LLM struct {
		BaseURL        string `mapstructure:"base_url"`
		Model          string `mapstructure:"model"`
		APIKeyEnv      string `mapstructure:"api_key_env"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"llm"`
}

var (
	cfg  *Config
	dirs *Dirs
)

func Init() error {
	appDirs, err := GetAppDirs("recap")
	if err != nil {
		return fmt.Errorf("failed to get app directories: %w", err)
	}
	dirs = appDirs

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(dirs.Config)

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's OK if the config file doesn't exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = filepath.Join(dirs.Data, "recap.db")
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("database.path", "")

	viper.SetDefault("llm.base_url", "https://openrouter.ai/api/v1")
	viper.SetDefault("llm.model", "google/gemini-2.5-flash-lite")
	viper.SetDefault("llm.api_key_env", "OPENROUTER_API_KEY")
	viper.SetDefault("llm.timeout_seconds", 120)
}

func Get() *Config {
	if cfg == nil {
		panic("config not initialized")
	}
	return cfg
}

func GetDirs() *Dirs {
	if dirs == nil {
		panic("config not initialized")
	}
	return dirs
}
