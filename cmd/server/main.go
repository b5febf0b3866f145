package main

import (
	"fmt"
	"os"

	"github.com/AngelCh415/novaretail/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, "novaretail:", err)
		os.Exit(1)
	}
}
