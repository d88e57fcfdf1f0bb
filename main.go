package main

import "github.com/turfline/turfpulse/cmd"

func main() {
	cmd.Execute()
}
