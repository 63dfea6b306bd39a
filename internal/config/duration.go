package config

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Duration wraps time.Duration so "30m" style strings work in the TOML
// files and the env JSON overlay.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(err, "failed to parse duration")
	}

	d.Duration = parsed

	return nil
}

// MarshalText implements encoding.TextMarshaler for DumpConfig.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalJSON accepts both "30m" strings and integer nanoseconds in the
// env overlay.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "failed to parse duration")
	}

	switch v := raw.(type) {
	case string:
		return d.UnmarshalText([]byte(v))
	case float64:
		d.Duration = time.Duration(v)
		return nil
	}

	return errors.Errorf("invalid duration value %s", data)
}
