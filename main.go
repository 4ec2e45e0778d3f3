package main

import "github.com/mocbot/sounddash/cmd"

func main() {
	cmd.Execute()
}
