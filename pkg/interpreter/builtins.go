package interpreter

import (
	"fmt"
	"strings"

	"github.com/postfixlang/postfix/pkg/types"
)

// registerBuiltins installs the arithmetic/logic/introspection
// primitives: a name → native-Go-function table, each wrapped into a
// *types.Native and installed into the dictionary.
func registerBuiltins(in *Interpreter) {
	arith := map[string]struct {
		intOp   func(a, b int64) int64
		fltOp   func(a, b float64) float64
	}{
		"+": {func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b }},
		"-": {func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b }},
		"*": {func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b }},
	}
	for name, op := range arith {
		name, op := name, op
		in.dict.DefineNative(name, func(ctx types.NativeContext) error {
			return binaryArith(ctx, name, op.intOp, op.fltOp)
		})
	}

	in.dict.DefineNative("/", binaryDivide)
	in.dict.DefineNative("i/", binaryIntOnly(func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, types.NewError(types.TypeMismatch, "division by zero")
		}
		return a / b, nil
	}))
	in.dict.DefineNative("mod", binaryIntOnly(func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, types.NewError(types.TypeMismatch, "division by zero")
		}
		return a % b, nil
	}))

	in.dict.DefineNative("and", binaryBool(func(a, b bool) bool { return a && b }))
	in.dict.DefineNative("or", binaryBool(func(a, b bool) bool { return a || b }))

	in.dict.DefineNative("int->flt", func(ctx types.NativeContext) error {
		v, err := ctx.PopValue()
		if err != nil {
			return err
		}
		n, ok := v.(types.Int)
		if !ok {
			return types.NewError(types.TypeMismatch, "`int->flt` expects :Int, got %s", v.Type())
		}
		ctx.PushValue(types.Flt(float64(n)))
		return nil
	})

	in.dict.DefineNative("type", func(ctx types.NativeContext) error {
		v, err := ctx.PopValue()
		if err != nil {
			return err
		}
		ctx.PushValue(types.Sym(v.Type()))
		return nil
	})

	in.dict.DefineNative("print", func(ctx types.NativeContext) error {
		v, err := ctx.PopValue()
		if err != nil {
			return err
		}
		fmt.Fprint(ctx.Writer(), v.String())
		return nil
	})
	in.dict.DefineNative("println", func(ctx types.NativeContext) error {
		v, err := ctx.PopValue()
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.Writer(), v.String())
		return nil
	})

	in.dict.DefineNative("clear", func(ctx types.NativeContext) error {
		ctx.ClearStack()
		return nil
	})

	in.dict.DefineNative("stack", func(ctx types.NativeContext) error {
		parts := make([]string, 0, ctx.StackSize())
		for i := ctx.StackSize() - 1; i >= 0; i-- {
			v, err := ctx.PeekValueN(i)
			if err != nil {
				break
			}
			parts = append(parts, v.String())
		}
		fmt.Fprintln(ctx.Writer(), "["+strings.Join(parts, ", ")+"]")
		return nil
	})

	in.dict.DefineNative("dict", func(ctx types.NativeContext) error {
		d := ctx.Dict()
		d.Print(ctx.Writer())
		fmt.Fprintln(ctx.Writer())
		return nil
	})

	in.dict.DefineNative("dup", func(ctx types.NativeContext) error {
		v, err := ctx.PeekValue()
		if err != nil {
			return err
		}
		ctx.PushValue(v.Copy())
		return nil
	})
	in.dict.DefineNative("swap", func(ctx types.NativeContext) error {
		a, err := ctx.PopValue()
		if err != nil {
			return err
		}
		b, err := ctx.PopValue()
		if err != nil {
			return err
		}
		ctx.PushValue(a)
		ctx.PushValue(b)
		return nil
	})
	in.dict.DefineNative("pop", func(ctx types.NativeContext) error {
		_, err := ctx.PopValue()
		return err
	})

	cmp := map[string]func(a, b float64) bool{
		"<":  func(a, b float64) bool { return a < b },
		">":  func(a, b float64) bool { return a > b },
		"<=": func(a, b float64) bool { return a <= b },
		">=": func(a, b float64) bool { return a >= b },
	}
	for name, op := range cmp {
		name, op := name, op
		in.dict.DefineNative(name, func(ctx types.NativeContext) error {
			return compareNumeric(ctx, name, op)
		})
	}
	in.dict.DefineNative("=", equalValues)
}

// compareNumeric implements `<`, `>`, `<=`, `>=`: both operands
// numeric, promoted like the arithmetic builtins.
func compareNumeric(ctx types.NativeContext, name string, op func(a, b float64) bool) error {
	right, err := ctx.PopValue()
	if err != nil {
		return err
	}
	left, err := ctx.PopValue()
	if err != nil {
		return err
	}
	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if !lok || !rok {
		return types.NewError(types.TypeMismatch, "`%s` requires numeric operands, got %s and %s", name, left.Type(), right.Type())
	}
	ctx.PushValue(types.Bool(op(lf, rf)))
	return nil
}

// equalValues implements `=`: structural equality by type and printed
// form, which agrees with Go equality for every scalar Value kind except
// Flt NaN (two NaNs print alike and so compare equal here).
func equalValues(ctx types.NativeContext) error {
	right, err := ctx.PopValue()
	if err != nil {
		return err
	}
	left, err := ctx.PopValue()
	if err != nil {
		return err
	}
	ctx.PushValue(types.Bool(left.Type() == right.Type() && left.String() == right.String()))
	return nil
}

// binaryArith implements §4.4's generic binary-arithmetic rule: pop
// right then left, promote to Flt if either operand is Flt, overload
// `+` for Str concatenation.
func binaryArith(ctx types.NativeContext, name string, intOp func(a, b int64) int64, fltOp func(a, b float64) float64) error {
	right, err := ctx.PopValue()
	if err != nil {
		return err
	}
	left, err := ctx.PopValue()
	if err != nil {
		return err
	}

	if name == "+" {
		if rs, ok := right.(types.Str); ok {
			ls, ok := left.(types.Str)
			if !ok {
				return types.NewError(types.TypeMismatch, "`+` on Str requires both operands to be Str, got %s", left.Type())
			}
			ctx.PushValue(types.Str(string(ls) + string(rs)))
			return nil
		}
	}

	li, lIsInt := left.(types.Int)
	ri, rIsInt := right.(types.Int)
	lf, lIsFlt := left.(types.Flt)
	rf, rIsFlt := right.(types.Flt)

	switch {
	case lIsInt && rIsInt:
		ctx.PushValue(types.Int(intOp(int64(li), int64(ri))))
		return nil
	case lIsFlt && rIsFlt:
		ctx.PushValue(types.Flt(fltOp(float64(lf), float64(rf))))
		return nil
	case lIsInt && rIsFlt:
		ctx.PushValue(types.Flt(fltOp(float64(li), float64(rf))))
		return nil
	case lIsFlt && rIsInt:
		ctx.PushValue(types.Flt(fltOp(float64(lf), float64(ri))))
		return nil
	default:
		return types.NewError(types.TypeMismatch, "`%s` requires numeric operands, got %s and %s", name, left.Type(), right.Type())
	}
}

// binaryDivide is `/`: Int/Int still promotes to Flt (§4.4).
func binaryDivide(ctx types.NativeContext) error {
	right, err := ctx.PopValue()
	if err != nil {
		return err
	}
	left, err := ctx.PopValue()
	if err != nil {
		return err
	}
	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if !lok || !rok {
		return types.NewError(types.TypeMismatch, "`/` requires numeric operands, got %s and %s", left.Type(), right.Type())
	}
	if rf == 0 {
		return types.NewError(types.TypeMismatch, "division by zero")
	}
	ctx.PushValue(types.Flt(lf / rf))
	return nil
}

func asFloat(v types.Value) (float64, bool) {
	switch n := v.(type) {
	case types.Int:
		return float64(n), true
	case types.Flt:
		return float64(n), true
	default:
		return 0, false
	}
}

// binaryIntOnly implements `i/` and `mod`: both operands must be Int;
// Flt operands raise NotDefined (§4.4).
func binaryIntOnly(op func(a, b int64) (int64, error)) func(types.NativeContext) error {
	return func(ctx types.NativeContext) error {
		right, err := ctx.PopValue()
		if err != nil {
			return err
		}
		left, err := ctx.PopValue()
		if err != nil {
			return err
		}
		li, lok := left.(types.Int)
		ri, rok := right.(types.Int)
		if !lok || !rok {
			if _, isFltL := left.(types.Flt); isFltL {
				return types.NewError(types.NotDefined, "integer-only operation on Flt operands")
			}
			if _, isFltR := right.(types.Flt); isFltR {
				return types.NewError(types.NotDefined, "integer-only operation on Flt operands")
			}
			return types.NewError(types.TypeMismatch, "expected :Int operands, got %s and %s", left.Type(), right.Type())
		}
		result, err := op(int64(li), int64(ri))
		if err != nil {
			return err
		}
		ctx.PushValue(types.Int(result))
		return nil
	}
}

func binaryBool(op func(a, b bool) bool) func(types.NativeContext) error {
	return func(ctx types.NativeContext) error {
		right, err := ctx.PopValue()
		if err != nil {
			return err
		}
		left, err := ctx.PopValue()
		if err != nil {
			return err
		}
		lb, lok := left.(types.Bool)
		rb, rok := right.(types.Bool)
		if !lok || !rok {
			return types.NewError(types.TypeMismatch, "expected :Bool operands, got %s and %s", left.Type(), right.Type())
		}
		ctx.PushValue(types.Bool(op(bool(lb), bool(rb))))
		return nil
	}
}
