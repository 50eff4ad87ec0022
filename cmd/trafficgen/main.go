package main

import (
	"os"

	"github.com/foodme/trafficgen/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
