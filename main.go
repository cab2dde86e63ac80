package main

import (
	"fmt"
	"os"

	"github.com/yourusername/s3-file-exporter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
