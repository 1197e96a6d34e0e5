package main

import "inspecthub/cmd/inspectl/cmd"

func main() {
	cmd.Execute()
}
