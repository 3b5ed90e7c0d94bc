package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/promptchad/promptchad/commands"
)

func main() {
	// A .env file is optional; API keys may also come from the config file
	// or the real environment.
	_ = godotenv.Load()

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
