package main

import (
	"github.com/brickedup/sessionkit/cmd/brickedup/cmd"
)

func main() {
	cmd.Execute()
}
