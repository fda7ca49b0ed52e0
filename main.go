package main

import "github.com/relloyd/starpipe/cmd"

func main() {
	cmd.Execute()
}
