package main

import "github.com/enmccarthy/lbann/cmd"

func main() {
	cmd.Execute()
}
