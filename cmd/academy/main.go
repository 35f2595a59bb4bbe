package main

import "github.com/rbt-academy/trainer/internal/cli"

func main() {
	cli.Execute()
}
