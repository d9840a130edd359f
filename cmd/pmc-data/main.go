/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"errors"
	"fmt"
	"log"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		if code := exitCode(err); code != 1 {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(code)
		}
		log.Fatal(err)
	}
}

// usageError is a problem with how we were invoked.  It exits with 2, like flag parsing errors
// do everywhere else.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var usage *usageError
	if errors.As(err, &usage) {
		return 2
	}
	return 1
}
