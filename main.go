package main

import "github.com/avolkov/calendar-assistant/cmd"

func main() {
	cmd.Execute()
}
