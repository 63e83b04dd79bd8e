package main

import (
	"os"

	"github.com/emmayisun/linkedin-job-tracker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
