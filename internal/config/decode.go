package config

import (
	"io"

	"github.com/pelletier/go-toml/v2"
)

// DecodeAndApplyDefaults decodes the TOML in r, validates it and applies default values.
// Unknown keys are an error.
func DecodeAndApplyDefaults(r io.Reader) (Config, error) {
	cfg := &Config{}

	d := toml.NewDecoder(r)
	d.DisallowUnknownFields()

	if err := d.Decode(cfg); err != nil {
		return *cfg, err
	}

	if cfg.ReleaseSettings.Type == "" {
		cfg.ReleaseSettings.Type = "github"
	}

	if err := cfg.Init(); err != nil {
		return *cfg, err
	}

	return *cfg, nil
}
