package pipeline

import (
	"context"
	"os"
	"os/exec"

	"github.com/rotisserie/eris"
)

// GHDL drives the ghdl binary. Each stage is one blocking subprocess;
// stdout and stderr pass straight through so the compiler's diagnostics
// reach the user unmodified.
type GHDL struct {
	// Binary is the executable to invoke, "ghdl" unless overridden.
	Binary string
}

// NewGHDL returns a GHDL toolchain using the ghdl binary on PATH.
func NewGHDL() *GHDL {
	return &GHDL{Binary: "ghdl"}
}

func (g *GHDL) Analyze(ctx context.Context, files []string) error {
	args := append([]string{"-a"}, files...)
	return g.run(ctx, "", args)
}

func (g *GHDL) Elaborate(ctx context.Context, dir, unit string, extraArgs []string) error {
	args := append([]string{"-e"}, extraArgs...)
	args = append(args, unit)
	return g.run(ctx, dir, args)
}

func (g *GHDL) Run(ctx context.Context, dir, unit, vcdName string) error {
	args := []string{"-r", unit}
	if vcdName != "" {
		args = append(args, "--vcd="+vcdName)
	}
	return g.run(ctx, dir, args)
}

func (g *GHDL) run(ctx context.Context, dir string, args []string) error {
	cmd := exec.CommandContext(ctx, g.Binary, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return eris.Wrapf(err, "ghdl %s did not complete successfully", args[0])
	}
	return nil
}
