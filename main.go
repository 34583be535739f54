package main

import "github.com/KaramelBytes/sessionlens-cli/cmd"

func main() {
	cmd.Execute()
}
