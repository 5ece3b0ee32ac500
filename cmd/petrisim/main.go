package main

import "github.com/petriflow/petrisim/cmd/petrisim/cmd"

func main() {
	cmd.Execute()
}
