package main

import "github.com/Kemiem/schiffe-versenken-ms4/internal/cli"

func main() {
	cli.Execute()
}
