package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vhdl_build.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return path
}

func TestLoadAndResolveDefaultTarget(t *testing.T) {
	path := writeManifest(t, `
[default]
target = "cpu"
vcd-viewer = "gtkwave"

[target.cpu]
files = ["top.vhd", "alu.vhd"]
execute = "top.vhd"
vcd-name = "cpu.vcd"
`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Default.VCDViewer != "gtkwave" {
		t.Fatalf("unexpected viewer: %q", m.Default.VCDViewer)
	}

	target, name, err := m.Resolve("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "cpu" {
		t.Fatalf("resolved %q, want cpu", name)
	}
	if len(target.Files) != 2 || target.Files[0] != "top.vhd" || target.Files[1] != "alu.vhd" {
		t.Fatalf("unexpected files: %v", target.Files)
	}
	if target.Execute != "top.vhd" || target.VCDName != "cpu.vcd" {
		t.Fatalf("unexpected target: %+v", target)
	}
}

func TestResolveExplicitNameWinsOverDefault(t *testing.T) {
	path := writeManifest(t, `
[default]
target = "cpu"

[target.cpu]
files = ["top.vhd"]

[target.testbench]
files = ["tb.vhd"]
`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, name, err := m.Resolve("testbench")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "testbench" {
		t.Fatalf("resolved %q, want testbench", name)
	}
}

func TestResolveNoTargetAndNoDefault(t *testing.T) {
	m := &Manifest{Target: map[string]Target{"cpu": {Files: []string{"a.vhd"}}}}
	if _, _, err := m.Resolve(""); err == nil {
		t.Fatal("expected an error when no target is selected")
	}
}

func TestResolveUnknownTarget(t *testing.T) {
	m := &Manifest{Target: map[string]Target{"cpu": {Files: []string{"a.vhd"}}}}
	_, _, err := m.Resolve("gpu")
	if err == nil {
		t.Fatal("expected an error for an unknown target")
	}
	if !strings.Contains(err.Error(), "gpu") {
		t.Fatalf("error does not name the target: %v", err)
	}
}

func TestLoadMissingManifest(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "vhdl_build.toml")); err == nil {
		t.Fatal("expected an error for a missing manifest")
	}
}

func TestLoadRejectsWrongFieldShape(t *testing.T) {
	path := writeManifest(t, `
[target.cpu]
files = "top.vhd"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected a schema error when files is not an array")
	}
}

func TestLoadRejectsUnknownTargetField(t *testing.T) {
	path := writeManifest(t, `
[target.cpu]
files = ["top.vhd"]
entrypoint = "top.vhd"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected a schema error for an unknown field")
	}
}

func TestValidateEnumeratesMissingFiles(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "top.vhd")
	if err := os.WriteFile(present, []byte("entity top is end;"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	missingA := filepath.Join(dir, "alu.vhd")
	missingB := filepath.Join(dir, "adder.vhd")

	target := Target{Files: []string{present, missingA, missingB}}
	err := target.Validate()
	if err == nil {
		t.Fatal("expected an error for missing files")
	}
	if !strings.Contains(err.Error(), missingA) || !strings.Contains(err.Error(), missingB) {
		t.Fatalf("error does not enumerate both missing files: %v", err)
	}
	if strings.Contains(err.Error(), present) {
		t.Fatalf("error names a file that exists: %v", err)
	}
}

func TestValidateEmptyFiles(t *testing.T) {
	if err := (Target{}).Validate(); err == nil {
		t.Fatal("expected an error for an empty files list")
	}
}

func TestInitRefusesOverwrite(t *testing.T) {
	path := writeManifest(t, "[default]\n")
	if err := Init(path); err == nil {
		t.Fatal("expected an error when the manifest already exists")
	}
}

func TestInitWritesLoadableManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vhdl_build.toml")
	if err := Init(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("starter manifest does not load: %v", err)
	}
	if m.Default.Target == "" {
		t.Fatal("starter manifest has no default target")
	}
}
