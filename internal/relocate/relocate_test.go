package relocate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdir switches into dir for the duration of the test, restoring the
// previous working directory on cleanup (a stand-in for t.Chdir, which
// requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

func writeWorkFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestRewriteCatalogMarkerLines(t *testing.T) {
	in := `v 1 system library "work"
file . "foo.vhd" "2024-01-01" wd:
  entity foo at 1( 0) + 0 on 1;
file . "bar.vhd" "2024-01-01" wd:
`
	want := `v 1 system library "work"
file . "../../foo.vhd" "2024-01-01" wd:
  entity foo at 1( 0) + 0 on 1;
file . "../../bar.vhd" "2024-01-01" wd:
`
	got := string(RewriteCatalog([]byte(in)))
	if got != want {
		t.Fatalf("unexpected rewrite:\n%s\nwant:\n%s", got, want)
	}
}

func TestRewriteCatalogNonMarkerLinesUntouched(t *testing.T) {
	in := "v 1 system library \"work\"\n  file . \"indented.vhd\"\nfile , \"other.vhd\"\n"
	got := string(RewriteCatalog([]byte(in)))
	if got != in {
		t.Fatalf("non-marker lines were modified:\n%s", got)
	}
}

func TestRewriteCatalogEmpty(t *testing.T) {
	if got := RewriteCatalog(nil); len(got) != 0 {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestRelocateMovesObjectsAndCatalog(t *testing.T) {
	chdir(t, t.TempDir())
	writeWorkFile(t, "a.o", "obj-a")
	writeWorkFile(t, "b.o", "obj-b")
	writeWorkFile(t, CatalogName, "file . \"a.vhd\"\nfile . \"b.vhd\"\n")

	if err := Relocate("build/root", []string{"a.vhd", "b.vhd"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"a.o", "b.o"} {
		if _, err := os.Stat(filepath.Join("build/root", name)); err != nil {
			t.Fatalf("object %s was not relocated: %v", name, err)
		}
		if _, err := os.Stat(name); !os.IsNotExist(err) {
			t.Fatalf("object %s still present in the working directory", name)
		}
	}

	rewritten, err := os.ReadFile(filepath.Join("build/root", CatalogName))
	if err != nil {
		t.Fatalf("relocated catalog missing: %v", err)
	}
	if !strings.Contains(string(rewritten), `file . "../../a.vhd"`) {
		t.Fatalf("catalog was not rewritten: %s", rewritten)
	}
	if _, err := os.Stat(CatalogName); !os.IsNotExist(err) {
		t.Fatal("original catalog was not removed")
	}
}

func TestRelocateMissingObjectNamesArtifact(t *testing.T) {
	chdir(t, t.TempDir())
	writeWorkFile(t, "a.o", "obj-a")
	writeWorkFile(t, CatalogName, "file . \"a.vhd\"\n")

	err := Relocate("build/root", []string{"a.vhd", "b.vhd"})
	if err == nil {
		t.Fatal("expected an error for the missing object")
	}
	if !strings.Contains(err.Error(), "b.o") {
		t.Fatalf("error does not name the missing artifact: %v", err)
	}

	// No catalog relocation happens after a failed object move.
	if _, err := os.Stat(CatalogName); err != nil {
		t.Fatalf("original catalog should be untouched: %v", err)
	}
	if _, err := os.Stat(filepath.Join("build/root", CatalogName)); !os.IsNotExist(err) {
		t.Fatal("catalog must not be relocated after a failed object move")
	}
}

func TestRelocateMissingCatalog(t *testing.T) {
	chdir(t, t.TempDir())
	writeWorkFile(t, "a.o", "obj-a")

	err := Relocate("build/root", []string{"a.vhd"})
	if err == nil {
		t.Fatal("expected an error for the missing catalog")
	}
	if !strings.Contains(err.Error(), CatalogName) {
		t.Fatalf("error does not name the catalog: %v", err)
	}
}

func TestRelocateOverwritesPreviousBuild(t *testing.T) {
	chdir(t, t.TempDir())
	if err := os.MkdirAll("build/root", 0755); err != nil {
		t.Fatalf("preparing build dir: %v", err)
	}
	writeWorkFile(t, filepath.Join("build/root", "a.o"), "stale")
	writeWorkFile(t, "a.o", "fresh")
	writeWorkFile(t, CatalogName, "file . \"a.vhd\"\n")

	if err := Relocate("build/root", []string{"a.vhd"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile(filepath.Join("build/root", "a.o"))
	if err != nil {
		t.Fatalf("relocated object missing: %v", err)
	}
	if string(content) != "fresh" {
		t.Fatalf("stale object was not overwritten: %s", content)
	}
}
