package main

import (
	"os"

	"github.com/simaogato/stocksync-backend/cmd/stocksync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
