package types

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind names one of the error categories spec.md §7 defines.
type Kind int

const (
	// StackUnderflow: pop on an empty stack, or operand arity unmet.
	StackUnderflow Kind = iota
	// TypeMismatch: expect(tag) failed, or a builtin received the wrong kind.
	TypeMismatch
	// Undefined: a symbol has no dictionary binding.
	Undefined
	// UnbalancedBracket: `]` with no matching `[`.
	UnbalancedBracket
	// UnbalancedBrace: `}` with no matching `{`.
	UnbalancedBrace
	// BadParamList: malformed `( … )` contents.
	BadParamList
	// NotDefined: the operation exists but not for this type combination.
	NotDefined
	// LoadFailed: a dynamic-library open failed, or its init symbol has
	// the wrong signature.
	LoadFailed
	// LexError: an unterminated string literal (or similarly malformed token).
	LexError
)

func (k Kind) String() string {
	switch k {
	case StackUnderflow:
		return "StackUnderflow"
	case TypeMismatch:
		return "TypeMismatch"
	case Undefined:
		return "Undefined"
	case UnbalancedBracket:
		return "UnbalancedBracket"
	case UnbalancedBrace:
		return "UnbalancedBrace"
	case BadParamList:
		return "BadParamList"
	case NotDefined:
		return "NotDefined"
	case LoadFailed:
		return "LoadFailed"
	case LexError:
		return "LexError"
	default:
		return "Unknown"
	}
}

// Error is a PostFix-level error: a Kind plus a human-readable message.
// Construction wraps the error with github.com/pkg/errors so a
// diagnostic stack trace travels with it for the shell's debug logger,
// without that trace leaking into the single-line message a user sees.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError constructs a Kind-tagged error with a stack trace attached.
func NewError(kind Kind, format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// KindOf unwraps err (through any github.com/pkg/errors wrapping) to
// find its Kind, returning (kind, true) if err originated from NewError.
func KindOf(err error) (Kind, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return 0, false
}
