package main

import "market-provisioner/cmd"

func main() {
	cmd.Execute()
}
