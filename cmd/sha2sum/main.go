package main

import (
	"os"

	"massnet.org/sha2/cmd/sha2sum/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
