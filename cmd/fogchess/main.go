package main

import (
	"fogchess/cmd/fogchess/cmd"
)

func main() {
	cmd.Execute()
}
