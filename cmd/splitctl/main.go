// Command splitctl computes expense settlements from a group snapshot file or
// a running splitit server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env supplies SPLITIT_URL and SPLITIT_TOKEN
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
