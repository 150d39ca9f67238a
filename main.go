// main package for covfold command-line tool
// Package main is the entry point for the covfold CLI.
package main

import "gooze.dev/pkg/covfold/cmd"

func main() {
	cmd.Execute()
}
