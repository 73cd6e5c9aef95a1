// Package main provides the 4a2a command line entry point.
package main

import (
	"fmt"
	"os"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("4a2a %s\n", version)
		return
	}

	fmt.Println("4a2a - second-order parameter fitting for differentiable audio effects")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("")
	fmt.Println("Fitting is driven through the newton package; see examples/.")
}
