package main

import "github.com/orabaiah/buzzerd/cmd/buzzerd/cmd"

func main() {
	cmd.Execute()
}
