package pipeline

import (
	"context"
	"os/exec"

	"github.com/rotisserie/eris"
)

// launchViewer starts gtkwave on the relocated waveform file. The
// viewer outlives the build, so the process is released rather than
// awaited.
func launchViewer(_ context.Context, vcdPath string) error {
	cmd := exec.Command(SupportedViewer, vcdPath)
	if err := cmd.Start(); err != nil {
		return eris.Wrapf(err, "launching %s for %s", SupportedViewer, vcdPath)
	}
	return cmd.Process.Release()
}
