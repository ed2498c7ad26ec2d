package main

import (
	"os"

	"github.com/bnema/umi-memepool/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
