package main

import "github.com/lepinkainen/bibliotech/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
