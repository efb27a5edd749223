// Command dbgen generates versioned persistence objects for annotated Go
// types and YAML manifests.
package main

import (
	"fmt"
	"os"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitFailed    = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "dbgen:", err)
		if isFailure(err) {
			return exitFailed
		}
		return exitUserError
	}
	return exitSuccess
}
