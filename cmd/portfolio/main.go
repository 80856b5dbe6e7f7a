package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/chaitanyauthale5/portfolio/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
