package main

import "github.com/tubetap/tubetap/cmd"

func main() {
	cmd.Execute()
}
