package interpreter

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// programs are small PostFix sessions, each run line by line against a
// fresh interpreter; the printed top-of-stack / print output after the
// whole program is snapshotted, mirroring the REPL's own behaviour
// (print the top of stack after a complete statement, spec.md §4.7).
var programs = map[string][]string{
	"arithmetic":     {"1 2 +", "3 *"},
	"array-literal":  {"[ 1 2 3 ] println"},
	"function-call":  {":double", "( a :Int -> :Int ) { a a + }", "fun", "21 double println"},
	// `if` is ( cond elseArr ifArr -- ): the block nearest `if` runs on
	// true, so the true-branch block is written second here.
	"conditional": {`true { "else-branch" } { "true-branch" } if println`},
	"closure-lambda": {"10 base!", "{ base } lam", "call-later!", "call-later"},
}

func TestEndToEndSnapshots(t *testing.T) {
	for name, lines := range programs {
		name, lines := name, lines
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			in := New(&out)
			var trace bytes.Buffer
			for _, line := range lines {
				if err := in.RunLine(line); err != nil {
					fmt.Fprintf(&trace, "%s => error: %s\n", line, err)
					continue
				}
				if in.StackSize() > 0 {
					top, _ := in.PeekValue()
					fmt.Fprintf(&trace, "%s => %s\n", line, top.String())
				} else {
					fmt.Fprintf(&trace, "%s => (empty stack)\n", line)
				}
			}
			trace.WriteString("stdout: " + out.String())
			snaps.MatchSnapshot(t, trace.String())
		})
	}
}
