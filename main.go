package main

import "seam/cmd"

func main() {
	cmd.Execute()
}
