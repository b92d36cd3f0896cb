package cmd

import (
	"fmt"
)

func init() {
	RegisterCommand(&Command{
		Name:  "validate",
		Short: "Check a script and print its timeline",
		Long: `Parse and build a script, reporting every problem found.

On success the number of views and chains is printed along with the time a
full playback takes.`,
		Usage: "xanim validate <script>",
		Run:   runValidate,
	})
}

func runValidate(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("script is required\n\nUsage: xanim validate <script>")
	}
	cfg, _, err := loadSettings()
	if err != nil {
		return err
	}
	l, err := loadScript(args[0], cfg.Config, nil)
	if err != nil {
		return err
	}

	steps := 0
	for _, c := range l.pkg.Chains() {
		steps += c.Len()
	}
	fmt.Fprintf(stdout, "%s: ok\n", args[0])
	fmt.Fprintf(stdout, "  canvas:   %dx%d\n", l.script.Width, l.script.Height)
	fmt.Fprintf(stdout, "  views:    %d\n", len(l.views))
	fmt.Fprintf(stdout, "  chains:   %d (%d steps)\n", len(l.pkg.Chains()), steps)
	fmt.Fprintf(stdout, "  playback: %v\n", l.pkg.PlaybackDuration())
	return nil
}
