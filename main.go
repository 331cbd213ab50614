package main

import "github.com/KaramelBytes/edareport/cmd"

func main() {
	cmd.Execute()
}
