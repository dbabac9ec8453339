package main

import (
	"os"

	"github.com/myjellybean/jellybean/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
