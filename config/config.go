package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	AI       AIConfig       `mapstructure:"ai"`
	Security SecurityConfig `mapstructure:"security"`
}

type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	Debug    bool   `mapstructure:"debug"`
	AdminKey string `mapstructure:"admin_key"`
}

type GameConfig struct {
	ScenarioPath      string `mapstructure:"scenario_path"`
	TickMs            int    `mapstructure:"tick_ms"`
	RespawnCheckS     int    `mapstructure:"respawn_check_s"`
	SnapshotIntervalS int    `mapstructure:"snapshot_interval_s"`
	PubSubBuf         int    `mapstructure:"pubsub_buf"`
}

type AIConfig struct {
	UpdateIntervalMs     int `mapstructure:"update_interval_ms"`
	MaxEntitiesPerUpdate int `mapstructure:"max_entities_per_update"`
}

type SecurityConfig struct {
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("game.scenario_path", "./data/scenario.yaml")
	v.SetDefault("game.tick_ms", 50)
	v.SetDefault("game.respawn_check_s", 5)
	v.SetDefault("game.snapshot_interval_s", 1)
	v.SetDefault("game.pubsub_buf", 256)
	v.SetDefault("ai.update_interval_ms", 0)
	v.SetDefault("ai.max_entities_per_update", 50)
	v.SetDefault("security.rate_limit_rps", 100)
	v.SetDefault("security.rate_limit_burst", 200)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
