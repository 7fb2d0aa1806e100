// Package ffi implements PostFix's `load-library` primitive: opening a
// Go plugin and invoking its exported init function with a handle to
// the current dictionary, the Go-native analogue of dlopen/dlsym
// handing a C extension a mutable struct pointer.
package ffi

import (
	"path/filepath"
	"plugin"
	"strings"
	"unicode"

	"github.com/postfixlang/postfix/pkg/types"
)

// InitFunc is the signature every PostFix extension's exported init
// symbol must have: given a live handle to the current dictionary, it
// typically calls DefineNative repeatedly to register new primitives.
type InitFunc func(dict *types.Dictionary)

// Load opens the plugin at path, derives its PfixInit<Stem> symbol
// name, and — if present — invokes it with dict. A library with no
// matching symbol loads silently with no effect, per spec.md §4.6
// ("if present").
func Load(path string, dict types.Dictionary) error {
	p, err := plugin.Open(path)
	if err != nil {
		return types.NewError(types.LoadFailed, "%s: %s", path, err)
	}

	symName := "PfixInit" + stem(path)
	sym, err := p.Lookup(symName)
	if err != nil {
		// No matching entry point: a library may export nothing and
		// still load successfully (it may only run init-time side effects).
		return nil
	}

	fn, ok := sym.(func(*types.Dictionary))
	if !ok {
		return types.NewError(types.LoadFailed, "%s: symbol %s has the wrong signature", path, symName)
	}
	fn(&dict)
	return nil
}

// stem strips a path's directory and extension and capitalizes the
// first rune, turning "./ext/math.so" into "Math".
func stem(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		return base
	}
	r := []rune(base)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
