package main

import "commerce-sync/cmd"

func main() {
	cmd.Execute()
}
