package main

import "github.com/papapumpkin/habitflow/cmd"

func main() {
	cmd.Execute()
}
