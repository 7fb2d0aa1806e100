// Package interpreter implements the push-driven PostFix evaluator: the
// state machine that decides whether an incoming Value pushes verbatim,
// opens or closes a nested structure, stores a binding, or invokes a
// definition.
package interpreter

import (
	"io"

	"github.com/postfixlang/postfix/pkg/lexer"
	"github.com/postfixlang/postfix/pkg/stack"
	"github.com/postfixlang/postfix/pkg/types"
)

// Interpreter owns the operand stack, the current dictionary, and the
// evaluate_on_push/exe_depth/exe_begin state machine §4.3 describes.
type Interpreter struct {
	stack *stack.Stack
	dict  types.Dictionary

	evaluateOnPush bool
	exeDepth       int
	exeBegin       int
	exited         bool

	out io.Writer
}

// New returns an Interpreter with an empty stack, a dictionary seeded
// with the built-in primitives, and evaluate_on_push initially true.
func New(out io.Writer) *Interpreter {
	in := &Interpreter{
		stack:          stack.New(),
		dict:           types.NewDictionary(),
		evaluateOnPush: true,
		out:            out,
	}
	registerBuiltins(in)
	registerSpecialForms(in)
	return in
}

// RunLine tokenizes and pushes every token on one line of source, in
// order, stopping at the first error.
func (in *Interpreter) RunLine(line string) error {
	tokens, err := lexer.Tokenize(line)
	if err != nil {
		return err
	}
	for _, tok := range tokens {
		if err := in.Push(tok.Value()); err != nil {
			return err
		}
	}
	return nil
}

// Exited reports whether the `exit` primitive has run this session.
func (in *Interpreter) Exited() bool { return in.exited }

// DictKeys returns the current dictionary's names, sorted, for the
// shell's tab-completion.
func (in *Interpreter) DictKeys() []string { return in.dict.Keys() }

// Open reports whether a `{…}`, `[…]` or `(…)` structure is still open, the
// signal the REPL shell uses to switch to a continuation prompt.
func (in *Interpreter) Open() bool {
	return in.exeDepth > 0 || in.hasOpenBracket()
}

func (in *Interpreter) hasOpenBracket() bool {
	for i := 0; i < in.stack.Size(); i++ {
		v, err := in.stack.PeekN(i)
		if err != nil {
			break
		}
		if s, ok := v.(types.Sym); ok && (string(s) == "[" || string(s) == "(") {
			return true
		}
	}
	return false
}

// Push is the interpreter's one central operation (§4.3.1).
func (in *Interpreter) Push(v types.Value) error {
	s, isSym := v.(types.Sym)
	if !isSym {
		in.stack.Push(v)
		return nil
	}
	text := string(s)

	switch {
	case types.IsTypeLiteral(text) || text == "->" || text == "[":
		in.stack.Push(v)
		return nil

	case text == "(":
		in.stack.Push(v)
		in.evaluateOnPush = false
		return nil

	case text == ")":
		in.evaluateOnPush = true
		return in.paramListClose()

	case text == "{":
		in.stack.Push(v)
		if in.exeDepth == 0 {
			in.exeBegin = in.stack.Size() - 1
		}
		in.exeDepth++
		// Suspend evaluation for everything inside the block — this is
		// what lets a deferred body hold onto its raw symbols (`+`,
		// a function name, …) instead of running them immediately.
		in.evaluateOnPush = false
		return nil

	case text == "}":
		in.exeDepth--
		if in.exeDepth < 0 {
			in.exeDepth = 0
			return types.NewError(types.UnbalancedBrace, "`}` with no matching `{`")
		}
		if in.exeDepth == 0 {
			in.evaluateOnPush = true
			body := in.stack.ItemsFrom(in.exeBegin)
			// body[0] is the `{` marker pushed above; drop it.
			if len(body) == 0 {
				return types.NewError(types.UnbalancedBrace, "`}` with no matching `{`")
			}
			body = body[1:]
			e := &types.ExeArr{Items: body, Dict: types.NewDictionary()}
			in.stack.Push(e)
			return nil
		}
		in.stack.Push(v)
		return nil

	default:
		if in.evaluateOnPush {
			return in.evaluateSymbol(text)
		}
		in.stack.Push(v)
		return nil
	}
}

// evaluateSymbol implements §4.3.2.
func (in *Interpreter) evaluateSymbol(s string) error {
	if len(s) > 1 && s[len(s)-1] == '!' {
		name := s[:len(s)-1]
		top, err := in.stack.Pop()
		if err != nil {
			return err
		}
		in.dict.Set(name, top)
		return nil
	}

	o, ok := in.dict.Get(s)
	if !ok {
		return types.NewError(types.Undefined, "%s", s)
	}
	switch t := o.(type) {
	case *types.Native:
		return t.Fn(in)
	case *types.ExeArr:
		return in.ExecuteExeArr(t)
	default:
		in.stack.Push(t.Copy())
		return nil
	}
}

// ExecuteExeArr implements §4.3.3: save the current dictionary, install
// a copy of e's captured one, push every body element through Push in
// order, and restore the saved dictionary on every exit path (including
// error). Installing a copy — not e.Dict itself — matters for
// recursion: each call gets its own private copy to bind parameters
// into, so a nested recursive call can't clobber an outer call's
// locals in the shared captured dictionary.
func (in *Interpreter) ExecuteExeArr(e *types.ExeArr) error {
	saved := in.dict
	in.dict = e.Dict.Copy()
	defer func() { in.dict = saved }()

	for _, x := range e.Items {
		if err := in.Push(x.Copy()); err != nil {
			return err
		}
	}
	return nil
}

// --- types.NativeContext implementation ---

func (in *Interpreter) PushValue(v types.Value)             { in.stack.Push(v) }
func (in *Interpreter) PopValue() (types.Value, error)      { return in.stack.Pop() }
func (in *Interpreter) PeekValue() (types.Value, error)     { return in.stack.Peek() }
func (in *Interpreter) PeekValueN(n int) (types.Value, error) { return in.stack.PeekN(n) }
func (in *Interpreter) StackSize() int                      { return in.stack.Size() }
func (in *Interpreter) ClearStack()                          { in.stack.Clear() }

func (in *Interpreter) Dict() types.Dictionary    { return in.dict }
func (in *Interpreter) SetDict(d types.Dictionary) { in.dict = d }

func (in *Interpreter) Writer() interface{ Write([]byte) (int, error) } { return in.out }
