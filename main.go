package main

import (
	"github.com/ypchan/barcode-vote-classifier/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
