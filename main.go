package main

import "provider-dedupe/cmd"

func main() {
	cmd.Execute()
}
