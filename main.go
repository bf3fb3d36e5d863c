package main

import "github.com/KaramelBytes/potency-cli/cmd"

func main() {
	cmd.Execute()
}
