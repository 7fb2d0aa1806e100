package interpreter

import (
	"github.com/postfixlang/postfix/pkg/ffi"
	"github.com/postfixlang/postfix/pkg/types"
)

// registerSpecialForms installs the primitives that are bound to
// punctuation or that manipulate the interpreter's own dictionary/stack
// state beyond ordinary arithmetic: `]`, `!`, `lam`, `fun`, `if`,
// `load-library`, `exit`. `)` is not registered: `Push` routes it to
// paramListClose directly.
func registerSpecialForms(in *Interpreter) {
	in.dict.DefineNative("]", func(ctx types.NativeContext) error {
		return in.bracketClose()
	})
	in.dict.DefineNative("!", storeSymbol)
	in.dict.DefineNative("lam", lam)
	in.dict.DefineNative("fun", fun)
	in.dict.DefineNative("if", ifPrimitive)
	in.dict.DefineNative("load-library", loadLibrary)
	in.dict.DefineNative("exit", func(ctx types.NativeContext) error {
		in.exited = true
		return nil
	})
}

// findMarker scans the stack top-down for a Sym(marker), returning the
// absolute stack index it sits at, or -1 if none is found.
func (in *Interpreter) findMarker(marker string) int {
	for i := 0; i < in.stack.Size(); i++ {
		v, err := in.stack.PeekN(i)
		if err != nil {
			break
		}
		if s, ok := v.(types.Sym); ok && string(s) == marker {
			return in.stack.Size() - 1 - i
		}
	}
	return -1
}

// bracketClose implements §4.3.4: take everything above the `[` marker
// (ItemsFrom already yields it in source order), drop the marker, push
// an Arr.
func (in *Interpreter) bracketClose() error {
	idx := in.findMarker("[")
	if idx < 0 {
		return types.NewError(types.UnbalancedBracket, "`]` with no matching `[`")
	}
	items := in.stack.ItemsFrom(idx)
	items = items[1:] // drop the `[` marker itself
	in.stack.Push(&types.Arr{Items: items})
	return nil
}

// paramListClose implements §4.3.5.
func (in *Interpreter) paramListClose() error {
	idx := in.findMarker("(")
	if idx < 0 {
		return types.NewError(types.BadParamList, "`)` with no matching `(`")
	}
	buf := in.stack.ItemsFrom(idx)
	buf = buf[1:] // drop the `(` marker

	params := &types.Params{}
	returnsMode := false
	var pendingName string
	haveName := false

	flush := func(typ string) {
		if haveName {
			params.Items = append(params.Items, types.Param{Name: pendingName, Type: typ})
			haveName = false
			pendingName = ""
		}
	}

	for _, v := range buf {
		s, ok := v.(types.Sym)
		if !ok {
			return types.NewError(types.BadParamList, "non-symbol %s in parameter list", v.Type())
		}
		text := string(s)

		if text == "->" {
			flush(":Obj")
			returnsMode = true
			continue
		}

		if returnsMode {
			if !types.IsTypeLiteral(text) {
				return types.NewError(types.BadParamList, "expected a type literal after `->`, got %q", text)
			}
			params.Returns = append(params.Returns, text)
			continue
		}

		if types.IsTypeLiteral(text) {
			if !haveName {
				return types.NewError(types.BadParamList, "orphan type literal %q with no preceding name", text)
			}
			flush(text)
			continue
		}

		// A plain name: flush any pending (untyped) name first, then
		// hold this one in case a type literal follows it.
		flush(":Obj")
		pendingName = text
		haveName = true
	}
	flush(":Obj")

	// An empty `()` is a valid zero-argument parameter list, not a
	// malformed one — it falls straight through to an empty Params.
	in.stack.Push(params)
	return nil
}

// storeSymbol is the dedicated `!` primitive (distinct from the
// inline `name!` shorthand, which does not sanitize): pop value then
// symbol, bind the sanitized name.
func storeSymbol(ctx types.NativeContext) error {
	val, err := ctx.PopValue()
	if err != nil {
		return err
	}
	sym, err := ctx.PopValue()
	if err != nil {
		return err
	}
	s, ok := sym.(types.Sym)
	if !ok {
		return types.NewError(types.TypeMismatch, "`!` expects a Sym name, got %s", sym.Type())
	}
	d := ctx.Dict()
	d.Set(types.Sanitize(string(s)), val)
	return nil
}

// lam implements §4.5's `lam`: replace the ExeArr's captured dictionary
// with a copy of the current one, leaving the value on the stack.
func lam(ctx types.NativeContext) error {
	v, err := ctx.PopValue()
	if err != nil {
		return err
	}
	e, ok := v.(*types.ExeArr)
	if !ok {
		return types.NewError(types.TypeMismatch, "`lam` expects an ExeArr, got %s", v.Type())
	}
	e.Dict = ctx.Dict().Copy()
	ctx.PushValue(e)
	return nil
}

// fun implements §4.5's `fun`.
func fun(ctx types.NativeContext) error {
	body, err := ctx.PopValue()
	if err != nil {
		return err
	}
	e, ok := body.(*types.ExeArr)
	if !ok {
		return types.NewError(types.TypeMismatch, "`fun` expects an ExeArr body, got %s", body.Type())
	}

	next, err := ctx.PopValue()
	if err != nil {
		return err
	}

	var name string
	var params *types.Params
	if p, ok := next.(*types.Params); ok {
		params = p
		nameVal, err := ctx.PopValue()
		if err != nil {
			return err
		}
		sym, ok := nameVal.(types.Sym)
		if !ok {
			return types.NewError(types.TypeMismatch, "`fun` expects a Sym name, got %s", nameVal.Type())
		}
		name = string(sym)
	} else {
		sym, ok := next.(types.Sym)
		if !ok {
			return types.NewError(types.TypeMismatch, "`fun` expects a Sym name, got %s", next.Type())
		}
		name = string(sym)
	}

	e.Dict = ctx.Dict().Copy()

	if params != nil {
		prelude := make([]types.Value, len(params.Items))
		for i, p := range params.Items {
			prelude[i] = types.Sym(p.Name + "!")
		}
		e.Items = append(prelude, e.Items...)
	}

	name = types.Sanitize(name)
	d := ctx.Dict()
	d.Set(name, e)
	e.Dict.Set(name, e)
	return nil
}

// ifPrimitive implements §4.5's `if`, invoking the chosen branch
// directly via ExecuteExeArr per the simplification spec.md §9 allows.
func ifPrimitive(ctx types.NativeContext) error {
	top, err := ctx.PopValue()
	if err != nil {
		return err
	}
	ifArr, ok := top.(*types.ExeArr)
	if !ok {
		return types.NewError(types.TypeMismatch, "`if` expects an ExeArr, got %s", top.Type())
	}

	var elseArr *types.ExeArr
	second, err := ctx.PeekValue()
	if err == nil {
		if ea, ok := second.(*types.ExeArr); ok {
			elseArr = ea
			if _, err := ctx.PopValue(); err != nil {
				return err
			}
		}
	}

	condVal, err := ctx.PopValue()
	if err != nil {
		return err
	}
	cond, ok := condVal.(types.Bool)
	if !ok {
		return types.NewError(types.TypeMismatch, "`if` expects a Bool condition, got %s", condVal.Type())
	}

	branch := elseArr
	if bool(cond) {
		branch = ifArr
	}
	if branch == nil {
		return nil
	}
	// A literal `{ … }` branch carries an empty dictionary; it runs in
	// the caller's scope so its body can see the caller's bindings.
	if branch.Dict.Len() == 0 {
		branch = &types.ExeArr{Items: branch.Items, Dict: ctx.Dict()}
	}
	return ctx.ExecuteExeArr(branch)
}

// loadLibrary implements §4.6, delegating the dlopen-equivalent work
// to pkg/ffi.
func loadLibrary(ctx types.NativeContext) error {
	v, err := ctx.PopValue()
	if err != nil {
		return err
	}
	p, ok := v.(types.Str)
	if !ok {
		return types.NewError(types.TypeMismatch, "`load-library` expects a Str path, got %s", v.Type())
	}
	return ffi.Load(string(p), ctx.Dict())
}
