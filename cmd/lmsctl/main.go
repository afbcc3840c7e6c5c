package main

import (
	"github.com/eduforge/lmsctl/pkg/cli"
)

func main() {
	cli.Execute()
}
