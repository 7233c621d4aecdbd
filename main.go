package main

import "prompt-mixer/cmd"

func main() {
	cmd.Execute()
}
