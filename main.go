package main

import (
	"github.com/romshelf/romshelf/cmd"
)

func main() {
	cmd.Execute()
}
