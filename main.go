package main

import "beatbox/cmd"

func main() {
	cmd.Execute()
}
