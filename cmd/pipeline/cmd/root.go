package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Node-graph execution engine for UI automation",
	Long: `pipeline runs declarative automation graphs: a document of named
nodes, each describing what to recognise on screen, what action to take
once recognition succeeds, and which node to visit next.

The engine walks the graph one node at a time, evaluating conditions,
dispatching recognition and action, and polling for the next node's
recognition to succeed before handing control to it.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
