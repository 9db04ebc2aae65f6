// Command diskx is a thin CLI driver exercising the scan-and-aggregation
// engine end to end: local scan, remote scan, duplicate detection,
// export, the on-disk cache, and the disk-space probe. Command-line
// parsing is explicitly out of the core's scope (spec.md §1); this
// binary is the ambient-stack collaborator that wires it in.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
