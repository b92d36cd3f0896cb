// Command xanim previews, renders and checks animation scripts.
package main

import (
	"fmt"
	"os"

	"github.com/go-fluid/fluid/cmd/xanim/cmd"
)

func main() {
	if err := cmd.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
