package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mitchellh/colorstring"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/vhdl-build/internal/manifest"
	"github.com/robert-at-pretension-io/vhdl-build/internal/parser"
	"github.com/robert-at-pretension-io/vhdl-build/internal/pipeline"
	"github.com/robert-at-pretension-io/vhdl-build/internal/resolver"
)

var (
	manifestPath string
	resolveDeps  bool
	verbose      bool
	vcdOverride  string
)

var rootCmd = &cobra.Command{
	Use:           "vhdl-build",
	Short:         "A TOML based build tool for GHDL + VHDL",
	Long:          `vhdl-build reads targets from a TOML manifest and drives GHDL through analyze, elaborate, run and waveform viewing, keeping all generated artifacts under build/root.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [target]",
	Short: "analyze a target's sources (useful for errors!)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(pipeline.CommandAnalyze, args)
	},
}

var compileCmd = &cobra.Command{
	Use:   "compile [target]",
	Short: "analyze and elaborate a target",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(pipeline.CommandCompile, args)
	},
}

var runCmd = &cobra.Command{
	Use:   "run [target]",
	Short: "fully analyze, elaborate, and run a target",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(pipeline.CommandRun, args)
	},
}

var waveCmd = &cobra.Command{
	Use:   "wave [target]",
	Short: "run a target and open the waveform viewer",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(pipeline.CommandWave, args)
	},
}

var depsCmd = &cobra.Command{
	Use:   "deps <file>",
	Short: "print every source file the design transitively depends on",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set := resolver.New(parser.New()).Resolve(args[0])
		for _, path := range resolver.Sorted(set) {
			fmt.Println(path)
		}
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "create a starter manifest in the current directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := manifest.Init(manifestPath); err != nil {
			return err
		}
		fmt.Printf("Created %s\n", manifestPath)
		fmt.Println("Edit it to list your target's files and the file to execute.")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&manifestPath, "manifest", manifest.DefaultPath, "path to the build manifest")
	rootCmd.PersistentFlags().BoolVar(&resolveDeps, "resolve", false, "expand each target file list with discovered dependencies")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	runCmd.Flags().StringVar(&vcdOverride, "vcd", "", "override the target's waveform output filename")
	waveCmd.Flags().StringVar(&vcdOverride, "vcd", "", "override the target's waveform output filename")

	rootCmd.AddCommand(analyzeCmd, compileCmd, runCmd, waveCmd, depsCmd, initCmd)
}

func runPipeline(cmd pipeline.Command, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}

	target, name, err := m.Resolve(name)
	if err != nil {
		return err
	}
	if err := target.Validate(); err != nil {
		return err
	}

	files := target.Files
	if resolveDeps {
		files = expandFiles(files)
	}

	vcd := target.VCDName
	if vcdOverride != "" {
		vcd = vcdOverride
	}

	logger := newLogger()
	ctx := pipeline.WithLogger(context.Background(), &logger)
	logger.Info().Str("target", name).Msg("building target")

	runner := pipeline.NewRunner(pipeline.NewGHDL())
	return runner.Run(ctx, cmd, pipeline.Target{
		Files:   files,
		Execute: target.Execute,
		VCDName: vcd,
	}, m.Default.VCDViewer)
}

// expandFiles unions the listed files with every dependency the
// resolver discovers, keeping the manifest's ordering for the listed
// files and appending discoveries after them.
func expandFiles(files []string) []string {
	set := resolver.New(parser.New()).ResolveAll(files)
	listed := make(map[string]bool, len(files))
	for _, f := range files {
		listed[f] = true
	}

	expanded := append([]string(nil), files...)
	for _, f := range resolver.Sorted(set) {
		if !listed[f] {
			expanded = append(expanded, f)
		}
	}
	return expanded
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(newConsoleWriter()).Level(level)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		colorstring.Fprint(os.Stderr, fmt.Sprintf("[red][vhdl-build][reset] %s. Aborting.\n", err))
		if verbose {
			fmt.Fprint(os.Stderr, eris.ToString(err, true))
		}
		os.Exit(1)
	}
}
