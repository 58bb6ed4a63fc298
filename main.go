package main

import "github.com/brk3/consistent/cmd"

func main() {
	cmd.Execute()
}
