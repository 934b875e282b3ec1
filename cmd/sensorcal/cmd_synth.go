package main

import (
	"fmt"
	"path/filepath"

	"github.com/CK6170/sensorcal-go/modern"
	"github.com/CK6170/sensorcal-go/ui"
	"github.com/spf13/cobra"
)

func newSynthCmd() *cobra.Command {
	var (
		dir    string
		rows   int
		config string
	)
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Write the three-sensor test scenario",
		Long: `Write sensor_0..2.csv sampled from the stock scenario curves on [0, 10]
and a config next to them that points at the files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ui.Out = cmd.OutOrStdout()
			p, err := modern.WriteScenario(dir, rows)
			if err != nil {
				return err
			}
			for _, s := range p.SENSORS {
				s.PATH = filepath.Base(s.PATH)
			}
			path := filepath.Join(dir, config)
			if err := modern.PersistParameters(path, p); err != nil {
				return err
			}
			ui.Greenf("wrote %d sensors x %d rows to %s\n", len(p.SENSORS), rows, dir)
			fmt.Fprintf(cmd.OutOrStdout(), "run with: sensorcal run -c %s\n", path)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&dir, "dir", ".", "output directory")
	f.IntVar(&rows, "rows", 100, "readings per sensor")
	f.StringVar(&config, "config", "calibration.json", "config file name written into dir")
	return cmd
}
