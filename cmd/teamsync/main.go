package main

import "github.com/fortuna/dugout/cmd/teamsync/cmd"

func main() {
	cmd.Execute()
}
