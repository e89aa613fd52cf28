package main

import (
	"os"

	"github.com/bhouston/chat-app/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
