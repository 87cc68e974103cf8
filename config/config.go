// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"strings"
	"time"

	"github.com/simplay-cli/simplay/constant"
	"github.com/simplay-cli/simplay/filesystem"
	"github.com/simplay-cli/simplay/key"
	"github.com/simplay-cli/simplay/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup initializes the global configuration state, including defaults, environment bindings, and localized file resolution.
func Setup() error {
	viper.SetConfigName(constant.Simplay)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Simplay)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}

// PlaybackInterval returns the configured tick interval, falling back to the default for non-positive values.
func PlaybackInterval() time.Duration {
	ms := viper.GetInt(key.PlaybackSpeedMs)
	if ms <= 0 {
		ms = Default[key.PlaybackSpeedMs].Value.(int)
	}
	return time.Duration(ms) * time.Millisecond
}

// Lookahead returns the configured prefetch window, never less than 1.
func Lookahead() int {
	w := viper.GetInt(key.PlaybackLookahead)
	if w < 1 {
		return 1
	}
	return w
}
