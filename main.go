package main

import "github.com/sweepmind/sweepmind/cmd"

func main() {
	cmd.Execute()
}
