package interpreter

import (
	"bytes"
	"testing"

	"github.com/postfixlang/postfix/pkg/types"
)

func run(t *testing.T, lines ...string) (*Interpreter, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	in := New(&out)
	for _, l := range lines {
		if err := in.RunLine(l); err != nil {
			t.Fatalf("RunLine(%q) failed: %v", l, err)
		}
	}
	return in, &out
}

func TestPushLiteralsRoundTrip(t *testing.T) {
	in, _ := run(t, `1 2.5 "hi" true :sym`)
	if in.StackSize() != 5 {
		t.Fatalf("StackSize() = %d, want 5", in.StackSize())
	}
	top, _ := in.PeekValue()
	if _, ok := top.(types.Sym); !ok {
		t.Fatalf("top = %v, want Sym", top)
	}
}

func TestArithmetic(t *testing.T) {
	in, _ := run(t, "1 2 +")
	top, _ := in.PeekValue()
	if top != types.Int(3) {
		t.Fatalf("1 2 + = %v, want 3", top)
	}

	in, _ = run(t, "1 2.0 +")
	top, _ = in.PeekValue()
	if top != types.Flt(3) {
		t.Fatalf("1 2.0 + = %v, want 3.0", top)
	}

	in, _ = run(t, `"foo" "bar" +`)
	top, _ = in.PeekValue()
	if top != types.Str("foobar") {
		t.Fatalf(`"foo" "bar" + = %v, want foobar`, top)
	}
}

func TestIntDivisionPromotesToFlt(t *testing.T) {
	in, _ := run(t, "7 2 /")
	top, _ := in.PeekValue()
	if top != types.Flt(3.5) {
		t.Fatalf("7 2 / = %v, want 3.5", top)
	}
}

func TestModOnFloatsIsNotDefined(t *testing.T) {
	var out bytes.Buffer
	in := New(&out)
	err := in.RunLine("1.0 2.0 mod")
	if err == nil {
		t.Fatal("1.0 2.0 mod should fail")
	}
	if kind, ok := types.KindOf(err); !ok || kind != types.NotDefined {
		t.Fatalf("error kind = %v, want NotDefined", kind)
	}
}

func TestArrayClose(t *testing.T) {
	in, _ := run(t, "[ 1 2 3 ]")
	top, _ := in.PeekValue()
	arr, ok := top.(*types.Arr)
	if !ok || len(arr.Items) != 3 {
		t.Fatalf("[ 1 2 3 ] = %v, want a 3-element Arr", top)
	}
	if arr.Items[0] != types.Int(1) || arr.Items[2] != types.Int(3) {
		t.Fatalf("Arr contents out of order: %v", arr.Items)
	}
}

func TestUnbalancedBracket(t *testing.T) {
	var out bytes.Buffer
	in := New(&out)
	err := in.RunLine("1 2 ]")
	if kind, ok := types.KindOf(err); !ok || kind != types.UnbalancedBracket {
		t.Fatalf("error kind = %v, want UnbalancedBracket", kind)
	}
}

func TestInlineAssignmentShorthand(t *testing.T) {
	in, _ := run(t, "5 x!", "x")
	top, _ := in.PeekValue()
	if top != types.Int(5) {
		t.Fatalf("x = %v, want 5", top)
	}
}

func TestStoreSymbolSanitizesName(t *testing.T) {
	in, _ := run(t, `:x 5 !`, "x")
	top, _ := in.PeekValue()
	if top != types.Int(5) {
		t.Fatalf("x = %v, want 5 (dedicated `!` should sanitize the leading `:`)", top)
	}
}

func TestExeArrCapturesBodyUnevaluated(t *testing.T) {
	in, _ := run(t, "{ 1 2 + }")
	top, _ := in.PeekValue()
	e, ok := top.(*types.ExeArr)
	if !ok || len(e.Items) != 3 {
		t.Fatalf("{ 1 2 + } = %v, want a 3-item ExeArr", top)
	}
}

func TestFunDefinesAndInvokesWithArgs(t *testing.T) {
	in, _ := run(t,
		":square ( a :Int -> :Int ) { a a * } fun",
	)
	if in.StackSize() != 0 {
		t.Fatalf("defining a function should not leave anything on the stack, got size %d", in.StackSize())
	}

	if err := in.RunLine("5 square"); err != nil {
		t.Fatalf("calling square failed: %v", err)
	}
	top, _ := in.PeekValue()
	if top != types.Int(25) {
		t.Fatalf("5 square = %v, want 25", top)
	}
}

func TestFunBindsItsOwnNameInItsCapturedDictionary(t *testing.T) {
	in, _ := run(t, ":countdown ( n :Int -> :Int ) { n } fun")

	v, ok := in.Dict().Get("countdown")
	if !ok {
		t.Fatal("fun should bind the function's name in the enclosing dictionary")
	}
	e, ok := v.(*types.ExeArr)
	if !ok {
		t.Fatalf("countdown = %v, want an ExeArr", v)
	}
	self, ok := e.Dict.Get("countdown")
	if !ok {
		t.Fatal("fun should also bind the function's own name inside its captured dictionary, for self-recursive calls")
	}
	if self != v {
		t.Fatal("the self-binding should be the same shared ExeArr, not a copy")
	}
}

// `if` is ( cond elseArr ifArr -- ): the block nearest the `if` token
// (ifArr, pushed last) runs on true; the middle block (elseArr) runs
// on false.
func TestIfTrueBranch(t *testing.T) {
	in, _ := run(t, "true { 1 } { 2 } if")
	top, _ := in.PeekValue()
	if top != types.Int(2) {
		t.Fatalf("if true branch = %v, want 2 (the ifArr nearest `if`)", top)
	}
}

func TestIfFalseBranch(t *testing.T) {
	in, _ := run(t, "false { 1 } { 2 } if")
	top, _ := in.PeekValue()
	if top != types.Int(1) {
		t.Fatalf("if false branch = %v, want 1 (the elseArr)", top)
	}
}

func TestIfWithoutElse(t *testing.T) {
	in, _ := run(t, "false { 1 } if")
	if in.StackSize() != 0 {
		t.Fatalf("false with no else branch should leave the stack empty, got size %d", in.StackSize())
	}
}

func TestLamCapturesCurrentDictionary(t *testing.T) {
	in, _ := run(t, "3 x!", "{ x } lam")
	top, _ := in.PeekValue()
	e, ok := top.(*types.ExeArr)
	if !ok {
		t.Fatalf("lam should leave the ExeArr on the stack, got %v", top)
	}
	if v, found := e.Dict.Get("x"); !found || v != types.Int(3) {
		t.Fatalf("lam should capture the current dictionary, Get(x) = %v, %v", v, found)
	}
}

func TestParamListClose(t *testing.T) {
	in, _ := run(t, "( a :Int b -> :Int )")
	top, _ := in.PeekValue()
	p, ok := top.(*types.Params)
	if !ok || len(p.Items) != 2 {
		t.Fatalf("param list = %v, want a 2-param Params", top)
	}
	if p.Items[0].Name != "a" || p.Items[0].Type != ":Int" {
		t.Fatalf("param 0 = %+v, want a::Int", p.Items[0])
	}
	if p.Items[1].Name != "b" || p.Items[1].Type != ":Obj" {
		t.Fatalf("param 1 = %+v, want b::Obj (untyped default)", p.Items[1])
	}
	if len(p.Returns) != 1 || p.Returns[0] != ":Int" {
		t.Fatalf("Returns = %v, want [:Int]", p.Returns)
	}
}

func TestExitSetsExitedFlag(t *testing.T) {
	in, _ := run(t, "exit")
	if !in.Exited() {
		t.Fatal("exit should set the interpreter's exited flag")
	}
}

func TestRecursiveFibonacci(t *testing.T) {
	// `if` runs its ifArr (the block nearest `if`) on true, so the base
	// case is written last and the recursive case first.
	in, _ := run(t,
		`:fib ( n :Int -> :Int ) { n 2 < { n 1 - fib n 2 - fib + } { 1 } if } fun`,
		"10 fib",
	)
	top, _ := in.PeekValue()
	if top != types.Int(89) {
		t.Fatalf("10 fib = %v, want 89", top)
	}
}

func TestTypeBuiltin(t *testing.T) {
	in, _ := run(t, "1 type")
	top, _ := in.PeekValue()
	if top != types.Sym(":Int") {
		t.Fatalf("1 type = %v, want :Int", top)
	}
}
