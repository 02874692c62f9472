package main

import "vpptest/cmd"

func main() {
	cmd.Execute()
}
