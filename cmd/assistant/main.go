package main

import "github.com/suPer8Hu/ai-assistant/internal/cli"

func main() {
	cli.Execute()
}
