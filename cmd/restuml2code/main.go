package main

import "github.com/mvp-joe/restuml2code/internal/cli"

func main() {
	cli.Execute()
}
