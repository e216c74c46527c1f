package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/mtat/variantgen/internal/cli"
)

func main() {
	// Provider credentials may live in a local .env file.
	_ = godotenv.Load()

	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
