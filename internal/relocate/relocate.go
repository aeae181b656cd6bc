// Package relocate moves GHDL's generated artifacts out of the working
// directory and into the project build directory. GHDL writes object
// files and a library catalog wherever it runs; later stages run from
// the build directory, so both have to be moved and the catalog's
// recorded paths corrected.
package relocate

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

const (
	// ObjectExt is the extension GHDL gives analyzed unit objects.
	ObjectExt = ".o"

	// CatalogName is the library catalog GHDL writes during analysis.
	CatalogName = "work-obj93.cf"

	// catalogMarker introduces a local file reference in the catalog.
	catalogMarker = `file . "`

	// catalogPrefix corrects recorded paths for the build-directory
	// nesting. The two levels match DefaultBuildDir; if the layout
	// changes, both must change together.
	catalogPrefix = "../../"
)

// DefaultBuildDir is where relocated artifacts and all later stage
// output live, relative to the working directory GHDL analyzed in.
const DefaultBuildDir = "build/root"

// Relocate moves the object artifact of every analyzed file, then the
// library catalog, from the working directory into buildDir. Both steps
// are required; a missing artifact aborts before any catalog work.
func Relocate(buildDir string, analyzed []string) error {
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		return eris.Wrapf(err, "creating build directory %s", buildDir)
	}
	if err := moveObjects(buildDir, analyzed); err != nil {
		return err
	}
	return relocateCatalog(buildDir)
}

func moveObjects(buildDir string, analyzed []string) error {
	for _, src := range analyzed {
		base := filepath.Base(src)
		object := strings.TrimSuffix(base, filepath.Ext(base)) + ObjectExt
		if _, err := os.Stat(object); err != nil {
			// GHDL produces one object per analyzed unit; its absence
			// means the analyze invocation went wrong.
			return eris.Wrapf(err, "expected object artifact %s after analysis", object)
		}
		if err := os.Rename(object, filepath.Join(buildDir, object)); err != nil {
			return eris.Wrapf(err, "moving object artifact %s into %s", object, buildDir)
		}
	}
	return nil
}

func relocateCatalog(buildDir string) error {
	content, err := os.ReadFile(CatalogName)
	if err != nil {
		return eris.Wrapf(err, "reading library catalog %s", CatalogName)
	}

	dest := filepath.Join(buildDir, CatalogName)
	if err := os.WriteFile(dest, RewriteCatalog(content), 0644); err != nil {
		return eris.Wrapf(err, "writing library catalog %s", dest)
	}
	if err := os.Remove(CatalogName); err != nil {
		return eris.Wrapf(err, "removing stale library catalog %s", CatalogName)
	}
	return nil
}

// RewriteCatalog corrects the working-directory-relative paths GHDL
// bakes into the catalog at analyze time. Every line opening a local
// file reference gets the build-directory depth correction inserted
// directly after the marker; all other lines pass through unchanged.
// Pure text transform, no filesystem access.
func RewriteCatalog(in []byte) []byte {
	lines := strings.Split(string(in), "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, catalogMarker) {
			lines[i] = catalogMarker + catalogPrefix + line[len(catalogMarker):]
		}
	}
	return []byte(strings.Join(lines, "\n"))
}
