package main

import (
	"github.com/tomekjarosik/keycheck/pkg/cmd"
)

func main() {
	cmd.Execute(cmd.InitializeCommands())
}
