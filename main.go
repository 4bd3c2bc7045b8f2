package main

import (
	"github.com/rdx-works/incentives-sidecar/cmd"
)

func main() {
	cmd.Execute()
}
