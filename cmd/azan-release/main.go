package main

import "github.com/oshokin/azan-release/cmd/azan-release/cmd"

func main() {
	cmd.Execute()
}
