package main

import (
	"os"

	"github.com/AngelCh415/influencer-roas/cmd/roas/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
