package cmd

func init() {
	RegisterCommand(&Command{
		Name:  "version",
		Short: "Print version information",
		Usage: "xanim version",
		Run: func(args []string) error {
			printVersion()
			return nil
		},
	})
}
