package main

import (
	"os"

	"github.com/MollahHamza/TRASHCANPRO/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
