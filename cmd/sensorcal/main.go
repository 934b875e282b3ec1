package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sensorcal",
		Short: "Offline sensor calibration",
		Long: `sensorcal filters outliers out of a set of sensor CSV logs, fits a
quadratic to every sensor and maps each sensor onto the reference sensor.`,
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newSynthCmd())
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
