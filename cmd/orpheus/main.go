package main

import "github.com/emiliopalmerini/orpheus/internal/cli"

func main() {
	cli.Execute()
}
