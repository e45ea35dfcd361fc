package main

import "github.com/kiesman99/spritepad/cmd"

func main() {
	cmd.Execute()
}
