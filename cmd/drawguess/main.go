package main

import "github.com/mcoot/drawguess/internal/cli"

func main() {
	cli.Execute()
}
