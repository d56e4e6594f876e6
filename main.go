package main

import "github.com/AddisenK/ai-assistant/cmd"

func main() {
	cmd.Execute()
}
