package main

import (
	"os"

	"chatterm/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
