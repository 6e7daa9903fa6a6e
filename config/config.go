// Package config loads optional defaults for the capture and view commands
// from a zedview.yml file. Command line flags always win over file values.
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/pkg/errors"
)

// DefaultFileName is looked for in the working directory when no explicit
// config path is given.
const DefaultFileName = "zedview.yml"

// Capture holds file-configurable defaults for the capture command.
type Capture struct {
	OutDir              string  `koanf:"outdir"`
	Resolution          string  `koanf:"resolution"`
	ConfidenceThreshold float64 `koanf:"confidence_threshold"`
	PreviewAddr         string  `koanf:"preview_addr"`
}

// View holds file-configurable defaults for the view command.
type View struct {
	WaitSec     float64 `koanf:"sec"`
	VMin        float64 `koanf:"vmin"`
	VMax        float64 `koanf:"vmax"`
	Palette     string  `koanf:"palette"`
	PreviewAddr string  `koanf:"preview_addr"`
}

// Defaults is the full config file shape.
type Defaults struct {
	Capture Capture `koanf:"capture"`
	View    View    `koanf:"view"`
}

func builtinDefaults() Defaults {
	return Defaults{
		Capture: Capture{
			OutDir:              "outdir",
			ConfidenceThreshold: 100,
			PreviewAddr:         "127.0.0.1:8912",
		},
		View: View{
			WaitSec:     1,
			VMin:        0,
			VMax:        5000,
			Palette:     "jet",
			PreviewAddr: "127.0.0.1:8912",
		},
	}
}

// Load reads defaults from the given path, or from zedview.yml in the
// working directory when path is empty. A missing file just yields the
// built-in defaults; a malformed one is an error.
func Load(path string) (*Defaults, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(builtinDefaults(), "koanf"), nil); err != nil {
		return nil, err
	}

	explicit := path != ""
	if path == "" {
		path = DefaultFileName
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		missing := errors.Is(err, os.ErrNotExist) || strings.Contains(err.Error(), "no such")
		if explicit || !missing {
			return nil, errors.Wrapf(err, "loading config %s", path)
		}
	}

	out := &Defaults{}
	if err := k.Unmarshal("", out); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	return out, nil
}
