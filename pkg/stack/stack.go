// Package stack implements the operand stack PostFix programs push to
// and pop from: a typed LIFO of types.Value.
package stack

import (
	"github.com/postfixlang/postfix/pkg/types"
)

// Stack is a LIFO of types.Value.
type Stack struct {
	items []types.Value
}

// New returns an empty Stack.
func New() *Stack {
	return &Stack{}
}

// Push pushes v onto the top of the stack.
func (s *Stack) Push(v types.Value) {
	s.items = append(s.items, v)
}

// Pop removes and returns the top value, or StackUnderflow if empty.
func (s *Stack) Pop() (types.Value, error) {
	if len(s.items) == 0 {
		return nil, types.NewError(types.StackUnderflow, "pop on empty stack")
	}
	v := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return v, nil
}

// Peek returns the top value without removing it.
func (s *Stack) Peek() (types.Value, error) {
	return s.PeekN(0)
}

// PeekN returns the value n slots below the top (0 is the top itself).
func (s *Stack) PeekN(n int) (types.Value, error) {
	idx := len(s.items) - 1 - n
	if idx < 0 {
		return nil, types.NewError(types.StackUnderflow, "peek %d below top on stack of size %d", n, len(s.items))
	}
	return s.items[idx], nil
}

// Size reports the number of values currently on the stack.
func (s *Stack) Size() int { return len(s.items) }

// Clear empties the stack.
func (s *Stack) Clear() { s.items = nil }

// PushInt is a convenience wrapper for native primitives pushing an Int.
func (s *Stack) PushInt(i int64) { s.Push(types.Int(i)) }

// PopInt pops and asserts an Int, or returns TypeMismatch.
func (s *Stack) PopInt() (int64, error) {
	v, err := s.Pop()
	if err != nil {
		return 0, err
	}
	i, ok := v.(types.Int)
	if !ok {
		return 0, types.NewError(types.TypeMismatch, "expected :Int, got %s", v.Type())
	}
	return int64(i), nil
}

// Expect pops the top value and checks it against wantType (a type
// literal such as ":Int"), returning TypeMismatch on a mismatch.
func (s *Stack) Expect(wantType string) (types.Value, error) {
	v, err := s.Pop()
	if err != nil {
		return nil, err
	}
	if v.Type() != wantType {
		return nil, types.NewError(types.TypeMismatch, "expected %s, got %s", wantType, v.Type())
	}
	return v, nil
}

// ItemsFrom returns (and removes) every value from index from to the
// top, oldest first — the slice a `]` or `)` close wraps into an
// Arr/Params/ExeArr body. from must be <= s.Size(); a from beyond the
// current depth (an unmatched opener) yields an empty slice, letting
// the caller report the appropriate unbalanced/malformed error.
func (s *Stack) ItemsFrom(from int) []types.Value {
	if from < 0 || from > len(s.items) {
		return nil
	}
	items := make([]types.Value, len(s.items)-from)
	copy(items, s.items[from:])
	s.items = s.items[:from]
	return items
}

// TruncateTo discards everything above index n, leaving the stack at
// depth n. A negative n empties the stack; an n above the current
// depth leaves it unchanged.
func (s *Stack) TruncateTo(n int) {
	if n < 0 {
		n = 0
	}
	if n > len(s.items) {
		return
	}
	s.items = s.items[:n]
}
