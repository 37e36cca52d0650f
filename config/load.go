package config

import (
	"bytes"
	"encoding/json"
	"os"

	libval "github.com/go-playground/validator/v10"

	"github.com/kjetilfjellheim/apinae/apperror"
	liberr "github.com/kjetilfjellheim/apinae/errors"
)

// Load reads an AppConfiguration from a JSON file at path. Unknown
// fields are rejected strictly, matching the teacher's preference for
// explicit validation over silent permissiveness.
func Load(path string) (*AppConfiguration, liberr.Error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperror.Configuration("failed to read configuration file", err)
	}

	cfg := &AppConfiguration{}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, apperror.Configuration("failed to parse configuration file", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate runs struct-tag validation over a loaded configuration using
// the same validator the kept certificates package uses.
func Validate(cfg *AppConfiguration) liberr.Error {
	if err := libval.New().Struct(cfg); err != nil {
		return apperror.Configuration("configuration failed validation", err)
	}
	return nil
}

// Save persists an AppConfiguration as JSON to path.
func Save(path string, cfg *AppConfiguration) liberr.Error {
	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return apperror.Configuration("failed to encode configuration", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return apperror.Configuration("failed to write configuration file", err)
	}
	return nil
}

// FindSetup returns the named setup or a NotFound error.
func FindSetup(cfg *AppConfiguration, id string) (*SetupConfiguration, liberr.Error) {
	for i := range cfg.Setups {
		if cfg.Setups[i].Id == id {
			return &cfg.Setups[i], nil
		}
	}
	return nil, apperror.NotFound("setup not found: " + id)
}
