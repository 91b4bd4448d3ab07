package config

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const envPrefix = "KANATRAIN_"

type lookupFunc func(string) (string, bool)

// applyEnv overrides fields from KANATRAIN_* variables. Malformed values
// are errors rather than silently ignored.
func (c *Config) applyEnv(lookup lookupFunc) error {
	e := envReader{lookup: lookup}

	e.str("DATASET", &c.Dataset)
	e.str("ALPHABET", &c.Alphabet)
	e.str("DATA_SOURCE", &c.DataSource)
	e.str("OUTPUT_DIR", &c.OutputDir)
	e.str("SIGNING_KEY", &c.SigningKey)
	e.str("FOREST_MODEL", &c.Forest.ModelPath)
	e.str("NETWORK_MODEL", &c.Network.ModelPath)
	e.str("NETWORK_PAYLOAD", &c.Network.Payload)
	e.list("FONT_PATHS", &c.FontPaths)
	e.boolean("FONT_DISCOVERY", &c.FontDiscovery)
	e.integer("INPUT_SIZE", &c.InputSize)
	e.integer("TARGET_SAMPLES", &c.TargetSamples)
	e.integer("PER_CHAR", &c.PerChar)
	e.integer("WORKERS", &c.Workers)
	e.integer("FOREST_ESTIMATORS", &c.Forest.Estimators)
	e.integer("FOREST_MAX_DEPTH", &c.Forest.MaxDepth)
	e.integer("NETWORK_EPOCHS", &c.Network.Epochs)
	e.float("FONT_SIZE", &c.FontSize)
	e.float("TEST_SIZE", &c.TestSize)

	if v, ok := e.get("SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			e.fail("SEED", err)
		} else {
			c.Seed = n
		}
	}

	return e.err
}

type envReader struct {
	lookup lookupFunc
	err    error
}

func (e *envReader) get(name string) (string, bool) {
	v, ok := e.lookup(envPrefix + name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e *envReader) fail(name string, err error) {
	if e.err == nil {
		e.err = errors.Wrapf(err, "invalid %s%s", envPrefix, name)
	}
}

func (e *envReader) str(name string, dst *string) {
	if v, ok := e.get(name); ok {
		*dst = v
	}
}

func (e *envReader) list(name string, dst *[]string) {
	if v, ok := e.get(name); ok {
		*dst = filepath.SplitList(v)
	}
}

func (e *envReader) integer(name string, dst *int) {
	if v, ok := e.get(name); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.fail(name, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) float(name string, dst *float64) {
	if v, ok := e.get(name); ok {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.fail(name, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) boolean(name string, dst *bool) {
	if v, ok := e.get(name); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.fail(name, err)
			return
		}
		*dst = b
	}
}
