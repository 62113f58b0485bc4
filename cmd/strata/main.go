// Package main provides the Strata ML toolkit CLI.
package main

import (
	"fmt"
	"os"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("Strata ML Toolkit %s\n", version)
		return
	}

	fmt.Println("Strata ML Toolkit - Keyword-Call Neural Networks for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("")
	fmt.Println("Coming soon: train, evaluate, score")
}
