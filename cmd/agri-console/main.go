package main

import (
	"os"

	"github.com/noah-isme/agri-dcp-console/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
