package main

import (
	"os"

	disrellocmder "github.com/papercomputeco/disrello/cmd/disrello"
)

func main() {
	cmd := disrellocmder.NewDisrelloCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
