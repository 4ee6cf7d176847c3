package main

import "github.com/morler/frontpack/cmd"

func main() {
	cmd.Execute()
}
