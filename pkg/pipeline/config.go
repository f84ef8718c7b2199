package pipeline

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/popchart/pkg/errors"
)

// LoadConfig reads a TOML chart config. Unknown keys are rejected so typos
// do not silently fall back to defaults:
//
//	title   = "Most populous countries"
//	width   = 1200
//	padding = 0.2
//	formats = ["svg", "png"]
//
//	[margins]
//	top = 70
//	right = 20
//	bottom = 50
//	left = 300
func LoadConfig(path string) (Options, error) {
	var opts Options
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return opts, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	}
	return ParseConfig(data)
}

// ParseConfig decodes TOML config bytes.
func ParseConfig(data []byte) (Options, error) {
	var opts Options
	md, err := toml.Decode(string(data), &opts)
	if err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return opts, errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return opts, nil
}
