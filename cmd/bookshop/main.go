package main

import "github.com/marshallshelly/pebble-bookshop/cmd/bookshop/commands"

func main() {
	commands.Execute()
}
