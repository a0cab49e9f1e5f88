package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/docchat-io/docchat/internal/adapters/driving/cli"
)

func main() {
	// A missing .env is fine; secrets may come from the environment.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
