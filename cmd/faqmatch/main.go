// Package main provides the entry point for the faqmatch CLI.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/Aman-CERP/faqmatch/cmd/faqmatch/cmd"
)

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
