package main

import "github.com/moamenhredeen/oas/cmd"

func main() {
	cmd.Execute()
}
