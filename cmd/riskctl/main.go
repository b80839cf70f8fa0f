package main

import "riskclient/internal/cli"

func main() {
	cli.Execute()
}
