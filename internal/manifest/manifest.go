// Package manifest loads the TOML build manifest describing named
// targets: which source files make up a design, which file to execute,
// and what waveform output to produce.
package manifest

import (
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rotisserie/eris"
)

// DefaultPath is where the manifest is looked up when no explicit path
// is given.
const DefaultPath = "vhdl_build.toml"

// Manifest is the parsed build manifest.
type Manifest struct {
	Default Defaults          `toml:"default"`
	Target  map[string]Target `toml:"target"`
}

// Defaults holds process-wide fallbacks.
type Defaults struct {
	Target    string `toml:"target"`
	VCDViewer string `toml:"vcd-viewer"`
}

// Target is one named build configuration.
type Target struct {
	Files   []string `toml:"files"`
	Execute string   `toml:"execute"`
	VCDName string   `toml:"vcd-name"`
}

// Load reads and decodes the manifest at path. The raw document is
// checked against the embedded schema before decoding, so a manifest
// with the wrong shape fails with a field-level diagnostic instead of
// decoding into a half-empty struct.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "manifest file %s not found in the current directory", path)
	}

	var doc map[string]interface{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "parsing manifest file %s", path)
	}

	if err := validateDocument(doc); err != nil {
		return nil, eris.Wrapf(err, "manifest file %s is invalid", path)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrapf(err, "parsing manifest file %s", path)
	}
	return &m, nil
}

// Resolve picks the target to build: the explicitly requested name, or
// default.target when none was given. The returned string is the name
// that was actually selected.
func (m *Manifest) Resolve(name string) (Target, string, error) {
	if name == "" {
		name = m.Default.Target
	}
	if name == "" {
		return Target{}, "", eris.New("no target was passed and no default target is set")
	}
	if len(m.Target) == 0 {
		return Target{}, "", eris.New("the manifest provides no targets")
	}
	target, ok := m.Target[name]
	if !ok {
		return Target{}, "", eris.Errorf("target %s is not defined in the manifest", name)
	}
	return target, name, nil
}

// Validate checks the target before any stage runs: the files list must
// be non-empty and every listed file must exist. Missing files are all
// enumerated in one diagnostic.
func (t Target) Validate() error {
	if len(t.Files) == 0 {
		return eris.New("a files list is required for every target but this one has none")
	}

	var missing []string
	for _, f := range t.Files {
		if _, err := os.Stat(f); err != nil {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		var b strings.Builder
		b.WriteString("the following files are listed in the target but were not found:")
		for i, f := range missing {
			fmt.Fprintf(&b, "\n  %d. %s", i+1, f)
		}
		return eris.New(b.String())
	}
	return nil
}

const starterManifest = `[default]
target = "main"
vcd-viewer = "gtkwave"

[target.main]
files = ["top.vhd"]
execute = "top.vhd"
vcd-name = "top.vcd"
`

// Init writes a starter manifest. Refuses to overwrite an existing one.
func Init(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return eris.Wrapf(err, "creating manifest %s", path)
	}
	defer f.Close()

	if _, err := f.WriteString(starterManifest); err != nil {
		return eris.Wrapf(err, "writing manifest %s", path)
	}
	return nil
}
