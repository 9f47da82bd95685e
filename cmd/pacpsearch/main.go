// Command pacpsearch searches for ±1 sequence pairs with a prescribed periodic
// correlation pattern and stores every new solution class it finds.
//
// Usage:
//
//	pacpsearch search --length 26 --workers 8 --time 10m --out results.txt
//	pacpsearch list --db ./pacp-db --length 26
package main

import (
	"fmt"
	"os"
)

// version is stamped by the release build.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
