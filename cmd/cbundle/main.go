package main

import (
	"github.com/NVIDIA/cics-bundle-go/pkg/cli"
)

func main() {
	cli.Execute()
}
