package main

import "github.com/school-georesolver/internal/cli"

func main() {
	cli.Execute()
}
