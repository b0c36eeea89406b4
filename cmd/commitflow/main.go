// commitflow generates a commit message for staged changes, checks
// that the commit belongs on the current branch, and commits it —
// moving the work to a new branch first when it doesn't fit.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mwhitfield/commitflow/workflow"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, workflow.ErrNoStagedChanges) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
