package main

import (
	"github.com/notargets/pbflow/cmd"
)

func main() {
	cmd.Execute()
}
