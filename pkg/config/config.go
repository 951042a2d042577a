// Package config resolves command defaults from .env files and the
// process environment. Flags applied by the commands override both.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	KeyStepLimit = "ASUAC_STEP_LIMIT"
	KeyColor     = "ASUAC_COLOR"
	KeyStats     = "ASUAC_STATS"
	KeyListing   = "ASUAC_LISTING"
)

// DefaultFile is read when Load is called without arguments.
const DefaultFile = ".env"

type Config struct {
	StepLimit int  // simulator step budget for -run
	Color     bool // colour CLI output
	Stats     bool // print instruction and memory-access counts
	Listing   bool // print the numbered instruction listing after assembling
}

func Default() Config {
	return Config{
		StepLimit: 200000,
		Color:     true,
		Stats:     true,
	}
}

// Load merges the given .env files (missing files are skipped, later files
// win) and then the environment on top of the defaults.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{DefaultFile}
	}

	values := map[string]string{}
	for _, f := range files {
		m, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("config %s: %w", f, err)
		}
		for k, v := range m {
			values[k] = v
		}
	}
	for _, k := range []string{KeyStepLimit, KeyColor, KeyStats, KeyListing} {
		if v, ok := os.LookupEnv(k); ok {
			values[k] = v
		}
	}

	return FromMap(values)
}

// FromMap applies key/value overrides to the defaults.
func FromMap(values map[string]string) (Config, error) {
	cfg := Default()

	if v, ok := values[KeyStepLimit]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("%s must be a positive integer, got %q", KeyStepLimit, v)
		}
		cfg.StepLimit = n
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{KeyColor, &cfg.Color},
		{KeyStats, &cfg.Stats},
		{KeyListing, &cfg.Listing},
	}
	for _, b := range bools {
		v, ok := values[b.key]
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be a boolean, got %q", b.key, v)
		}
		*b.dst = parsed
	}

	return cfg, nil
}
