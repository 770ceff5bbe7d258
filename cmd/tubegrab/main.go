package main

import (
	"os"

	"github.com/furkhad/youtube/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
