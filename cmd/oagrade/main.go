// Command oagrade grades knee X-rays for osteoarthritis severity against a
// remote inference endpoint and manages the local classification history.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", newUI().err("error:"), err)
		os.Exit(1)
	}
}
