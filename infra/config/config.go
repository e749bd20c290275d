package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Dir is the default directory of the config files.
const Dir = "infra/config"

// EnvPrefix prefixes the environment variables that override the config,
// e.g. FREELEARN_ANALYSIS_FOLDS for the 'folds' of the 'analysis' config.
const EnvPrefix = "FREELEARN"

// Load loads the config for the given key from infra/config.
func Load(key string, v interface{}) error {
	return LoadFrom(Dir, key, v)
}

// LoadFrom loads the config for the given key into v.
// The current values of v are the defaults, overridden by <dir>/<key>.json if it exists
// and then by the environment. v is expected to carry matching json and mapstructure tags.
func LoadFrom(dir, key string, v interface{}) error {
	cfg := viper.New()
	cfg.SetEnvPrefix(fmt.Sprintf("%s_%s", EnvPrefix, strings.ToUpper(key)))
	cfg.AutomaticEnv()

	defaults, err := fields(v)
	if err != nil {
		return fmt.Errorf("could not read defaults for %s: %w", key, err)
	}
	for k, d := range defaults {
		cfg.SetDefault(k, d)
	}

	file := filepath.Join(dir, fmt.Sprintf("%s.json", key))
	cfg.SetConfigFile(file)
	if err := cfg.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("could not read config for %s: %w", key, err)
		}
		log.Debug().Str("config", key).Str("file", file).Msg("no config file")
	}

	if err := cfg.Unmarshal(v); err != nil {
		return fmt.Errorf("could not unmarshal the config for %s: %w", key, err)
	}
	log.Info().Str("config", key).Msg("loaded config")
	return nil
}

// MustLoadFrom loads the config for the given key and panics if it cannot.
func MustLoadFrom(dir, key string, v interface{}) {
	if err := LoadFrom(dir, key, v); err != nil {
		panic(err.Error())
	}
}

func fields(v interface{}) (map[string]interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := make(map[string]interface{})
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
