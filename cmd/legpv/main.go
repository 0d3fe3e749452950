package main

import (
	"os"

	"github.com/meenmo/dpm/cmd/legpv/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
