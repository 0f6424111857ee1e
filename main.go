// Package main is the entry point for the islet CLI.
package main

import "islet.dev/pkg/islet/cmd"

func main() {
	cmd.Execute()
}
