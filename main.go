package main

import "github.com/Attumm/valkey-dict/cmd"

func main() {
	cmd.Execute()
}
