package main

import (
	"fmt"
	"os"
)

func main() {
	// Internal faults never surface as raw panics to the end user.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	Execute()
}
