// Command postfix is the interactive shell for the PostFix language.
package main

import (
	"fmt"
	"os"

	"github.com/postfixlang/postfix/cmd/postfix/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
