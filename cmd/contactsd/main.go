package main

import "github.com/izniy/NexusBook/cmd/contactsd/cmd"

func main() {
	cmd.Execute()
}
