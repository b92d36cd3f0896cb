package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/go-fluid/fluid/pkg/view"
)

func init() {
	RegisterCommand(&Command{
		Name:  "scrub",
		Short: "Print resolved values along the timeline",
		Long: `Scrub a script and print every view's visual state at a set of
positions along the timeline.

Positions are fractions from 0 (first step) to 1 (last step). By default
five evenly spaced positions are printed.

Flags:
  --steps N        Number of evenly spaced positions (default 5)
  --at F1,F2,...   Explicit positions`,
		Usage: "xanim scrub <script> [--steps N | --at F1,F2,...]",
		Run:   runScrub,
	})
}

func runScrub(args []string) error {
	flags, err := parseFlags(args, flagSpec{values: []string{"--steps", "--at"}})
	if err != nil {
		return err
	}
	if len(flags.args) != 1 {
		return fmt.Errorf("script is required\n\nUsage: xanim scrub <script> [--steps N | --at F1,F2,...]")
	}
	steps, err := flags.intValue("--steps", 5)
	if err != nil {
		return err
	}
	fractions, err := scrubFractions(steps, flags.values["--at"])
	if err != nil {
		return err
	}

	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	l, err := loadScript(flags.args[0], cfg.Config, nil)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%-8s  %-12s %7s %8s %8s %8s %7s  %s\n",
		"fraction", "view", "scale", "rotate", "tx", "ty", "opacity", "color")
	for _, f := range fractions {
		if err := l.pkg.Interpolate(f); err != nil {
			return err
		}
		for _, v := range l.ordered() {
			printState(f, v)
		}
	}
	logger.WithFields(logrus.Fields{"script": flags.args[0], "positions": len(fractions)}).Debug("scrubbed")
	return nil
}

func printState(fraction float64, v *view.View) {
	s := v.Properties()
	color := "-"
	if s.HasColor {
		color = s.Color.Clamped().Hex()
	}
	fmt.Fprintf(stdout, "%-8.3f  %-12s %7.3f %8.2f %8.2f %8.2f %7.3f  %s\n",
		fraction, v.Name, s.Scale, s.Rotation, s.TranslationX, s.TranslationY, s.Opacity, color)
}

// scrubFractions returns the positions listed in at, or steps evenly spaced
// positions from 0 to 1.
func scrubFractions(steps int, at string) ([]float64, error) {
	if at != "" {
		var out []float64
		for _, field := range strings.Split(at, ",") {
			f, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("--at: %w", err)
			}
			out = append(out, f)
		}
		return out, nil
	}
	if steps < 2 {
		return nil, fmt.Errorf("--steps must be at least 2 (got %d)", steps)
	}
	out := make([]float64, steps)
	for i := range steps {
		out[i] = float64(i) / float64(steps-1)
	}
	return out, nil
}
