package main

import "rpgroster/cli"

func main() {
	cli.Execute()
}
