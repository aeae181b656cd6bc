// Package pipeline sequences the GHDL toolchain stages for one build
// target: analyze the sources, relocate the generated artifacts into
// the build directory, then elaborate, execute and optionally open the
// waveform viewer from there. Stages run one at a time and the first
// failure halts the pipeline; GHDL's own diagnostics are the
// user-facing error surface for toolchain failures.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/robert-at-pretension-io/vhdl-build/internal/relocate"
)

// SupportedViewer is the only waveform viewer the wave stage launches.
const SupportedViewer = "gtkwave"

// Target is the resolved build configuration the pipeline runs.
type Target struct {
	// Files in manifest order. The order is passed to the analyze
	// invocation exactly as given; GHDL resolves inter-file
	// dependencies by command-line ordering.
	Files []string

	// Execute is the source file whose top-level unit is elaborated and
	// executed. Optional for analyze-only builds.
	Execute string

	// VCDName is the waveform output filename, written under the build
	// directory. Optional.
	VCDName string
}

// Toolchain is the external compiler the pipeline drives. Implemented
// by GHDL; tests substitute a recorder.
type Toolchain interface {
	// Analyze compiles the files, in the given order, from the current
	// working directory.
	Analyze(ctx context.Context, files []string) error

	// Elaborate links the named unit, running in dir.
	Elaborate(ctx context.Context, dir, unit string, extraArgs []string) error

	// Run executes the named unit in dir, writing a VCD waveform to
	// vcdName when it is non-empty.
	Run(ctx context.Context, dir, unit, vcdName string) error
}

// ViewerLauncher starts the external waveform viewer as a detached
// process.
type ViewerLauncher func(ctx context.Context, vcdPath string) error

// Runner executes the stage sequence for one target.
type Runner struct {
	tc       Toolchain
	buildDir string
	launch   ViewerLauncher
}

// NewRunner creates a Runner driving the given toolchain with the
// default build directory and viewer.
func NewRunner(tc Toolchain) *Runner {
	return &Runner{
		tc:       tc,
		buildDir: relocate.DefaultBuildDir,
		launch:   launchViewer,
	}
}

// Run executes the stages selected by cmd against the target, stopping
// at the first failure. Every listed file must exist before any stage
// runs; missing files are enumerated in a single pre-flight error.
func (r *Runner) Run(ctx context.Context, cmd Command, target Target, viewer string) error {
	if len(target.Files) == 0 {
		return eris.New("the target lists no source files")
	}

	var missing []string
	for _, f := range target.Files {
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

	for _, stage := range cmd.Stages() {
		if err := r.runStage(ctx, stage, target, viewer); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runStage(ctx context.Context, stage Stage, target Target, viewer string) error {
	switch stage {
	case StageAnalyze:
		log(ctx).Info().Strs("files", target.Files).Msg("analyzing")
		if err := r.tc.Analyze(ctx, target.Files); err != nil {
			return eris.Wrap(err, "analysis failed")
		}
		return relocate.Relocate(r.buildDir, target.Files)

	case StageElaborate:
		if target.Execute == "" {
			return eris.New("no execute file is configured for this target; set execute in the manifest to elaborate and run")
		}
		extra, err := elaborateArgs(ctx)
		if err != nil {
			return err
		}
		unit := unitName(target.Execute)
		log(ctx).Info().Str("unit", unit).Msg("elaborating")
		if err := r.tc.Elaborate(ctx, r.buildDir, unit, extra); err != nil {
			return eris.Wrap(err, "elaboration failed")
		}
		return nil

	case StageExecute:
		unit := unitName(target.Execute)
		log(ctx).Info().Str("unit", unit).Str("vcd", target.VCDName).Msg("executing")
		if err := r.tc.Run(ctx, r.buildDir, unit, target.VCDName); err != nil {
			return eris.Wrap(err, "execution failed")
		}
		return nil

	case StageWave:
		if target.VCDName == "" {
			return eris.New("no vcd-name is configured for this target; set vcd-name in the manifest to view waveforms")
		}
		if viewer == "" {
			return eris.Errorf("no vcd viewer is configured; set default.vcd-viewer to %s in the manifest", SupportedViewer)
		}
		if viewer != SupportedViewer {
			return eris.Errorf("unsupported vcd viewer %q: only %s is supported", viewer, SupportedViewer)
		}
		vcdPath := filepath.Join(r.buildDir, target.VCDName)
		log(ctx).Info().Str("vcd", vcdPath).Msg("opening waveform viewer")
		return r.launch(ctx, vcdPath)
	}
	return eris.Errorf("unknown pipeline stage %d", stage)
}

// unitName is the design unit GHDL addresses: the execute file's base
// name without its extension.
func unitName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
