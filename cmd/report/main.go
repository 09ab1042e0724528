// Package main generates engagement and leaderboard reports as Markdown or CSV.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
