package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cwbudde/pipeline-go/internal/sim"
	"github.com/cwbudde/pipeline-go/pkg/pipeline"
	"github.com/spf13/cobra"
)

var (
	startNode    string
	seed         uint64
	pollInterval time.Duration
	failModels   []string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a pipeline document from a start node",
	Long: `Execute a pipeline JSON document, stepping through nodes until the
executor stops.

Recognition and input are driven by a console backend that prints a
trace of every recognition attempt and action performed instead of
touching a real screen; wire your own Vision/Input through pkg/pipeline
to drive this engine against an actual target.

Examples:
  # Run a document from its "Start" node
  pipeline run graph.json --start Start

  # Force a named recognition model to fail, to exercise on_error/timeout paths
  pipeline run graph.json --start Start --fail-model never`,
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&startNode, "start", "", "name of the node to start execution at (required)")
	runCmd.Flags().Uint64Var(&seed, "seed", 0, "seed for the coordinate-jitter PRNG (0 derives one from the current time)")
	runCmd.Flags().DurationVar(&pollInterval, "timeout-poll", 0, "successor-search poll interval (0 uses the engine default)")
	runCmd.Flags().StringSliceVar(&failModels, "fail-model", nil, "recognition model name(s) to force as failing, for testing on_error/timeout paths")
	_ = runCmd.MarkFlagRequired("start")
}

func runPipeline(_ *cobra.Command, args []string) error {
	path := args[0]

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	vision := sim.NewConsoleVision(os.Stdout, failModels...)
	input := sim.NewConsoleInput(os.Stdout)
	logSink := sim.NewConsoleLogSink(os.Stdout)

	engine := pipeline.New(vision, input, logSink, pipeline.Options{
		Seed:         seed,
		PollInterval: pollInterval,
	})

	if verbose {
		engine.SetNodeObserver(func(nodeName string, success bool) {
			fmt.Fprintf(os.Stderr, "[node] %s success=%v\n", nodeName, success)
		})
		engine.SetTaskStopObserver(func(nodeName, reason string) {
			fmt.Fprintf(os.Stderr, "[stop] %s: %s\n", nodeName, reason)
		})
	}

	if err := engine.RunFile(context.Background(), path, startNode); err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	fmt.Printf("stopped (state=%s)\n", engine.State())
	return nil
}
