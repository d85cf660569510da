// Package main is the entry point for the thermo CLI.
package main

import "github.com/mesh-intelligence/thermocycle/internal/cli"

func main() {
	cli.Execute()
}
