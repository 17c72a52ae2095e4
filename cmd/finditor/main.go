package main

import (
	"os"

	"github.com/sonemaro/finditor/cmd/finditor/commands"
)

func main() {
	os.Exit(commands.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
