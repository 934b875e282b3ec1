package main

import (
	"fmt"
	"io"
	"os"

	"github.com/CK6170/sensorcal-go/chart"
	"github.com/CK6170/sensorcal-go/modern"
	"github.com/CK6170/sensorcal-go/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type runOptions struct {
	config    string
	threshold float64
	reference int
	width     int
	height    int
	noGrid    bool
	noWait    bool
	debug     bool
}

func newRunCmd() *cobra.Command {
	o := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the calibration and show the six stage panels",
		Long: `Load the configured sensor CSVs, keep the readings that are inliers in
every sensor, fit and correct, then print a summary and the 2x3 panel grid.
On a terminal the display stays up until a key is pressed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalibration(cmd, o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.config, "config", "c", "", "calibration config (json or yaml); defaults to sensor_0..2.csv here")
	f.Float64Var(&o.threshold, "threshold", 0, "override the inlier threshold")
	f.IntVar(&o.reference, "reference", -1, "override the reference sensor index")
	f.IntVar(&o.width, "width", 0, "display width in cells (default: terminal width)")
	f.IntVar(&o.height, "height", 0, "display height in rows (default: terminal height)")
	f.BoolVar(&o.noGrid, "no-grid", false, "hide grid lines")
	f.BoolVar(&o.noWait, "no-wait", false, "exit without waiting for a key")
	f.BoolVar(&o.debug, "debug", false, "print stage updates")
	return cmd
}

func runCalibration(cmd *cobra.Command, o *runOptions) error {
	out := cmd.OutOrStdout()
	ui.Out = out

	sess, err := modern.Open(o.config)
	if err != nil {
		return err
	}
	p := sess.Params
	if o.threshold > 0 {
		p.THRESHOLD = o.threshold
	}
	if o.reference >= 0 {
		p.REFERENCE = o.reference
	}
	debug := o.debug || p.DEBUG

	res, err := sess.Run(cmd.Context(), func(u modern.StageUpdate) {
		ui.Debugf(debug, "%s: %s\n", u.Stage, u.Message)
	})
	if err != nil {
		return err
	}

	sum := modern.Summarize(res)
	for _, w := range sum.Warnings {
		ui.Warningf("warning: %s\n", w)
	}
	sum.Warnings = nil
	ui.Greenf("%s", sum.String())

	tty := isTerminal(out)
	w, h := displaySize(out, o.width, o.height)
	fmt.Fprintln(out, chart.RenderGrid(modern.BuildPanels(res), w, h, -1, !o.noGrid))

	if o.noWait || !tty {
		return nil
	}
	fmt.Fprint(out, "press any key to close")
	_, err = ui.WaitForKey(cmd.Context())
	fmt.Fprintln(out)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// displaySize prefers explicit sizes, then the terminal, then 120x40.
func displaySize(w io.Writer, width, height int) (int, int) {
	tw, th := 120, 40
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if cw, ch, err := term.GetSize(int(f.Fd())); err == nil {
			// leave room for the summary and the prompt
			tw, th = cw, ch-8
		}
	}
	if width > 0 {
		tw = width
	}
	if height > 0 {
		th = height
	}
	return tw, th
}
