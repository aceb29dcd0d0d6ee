package main

import "simctl/internal/cli"

func main() {
	cli.Execute()
}
