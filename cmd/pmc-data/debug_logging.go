package main

import (
	"fmt"
	"io"
	"log"
	"os"
)

func debugLog(format string, a ...any) {
	if Debug {
		string := fmt.Sprintf(format, a...)
		fmt.Fprintf(os.Stderr, "[pmc-data] %s", string)
	}
}

// workerLogger is handed to the cleanup and preparation code.  Their per-item chatter is only
// wanted with --debug.
func workerLogger(debug bool) *log.Logger {
	if !debug {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "[pmc-data] ", log.LstdFlags)
}
