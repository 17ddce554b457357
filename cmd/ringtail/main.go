package main

import commands "github.com/YaLTeR/circular-queue/cmd"

func main() {
	commands.Execute()
}
