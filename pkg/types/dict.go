package types

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Dictionary maps symbol names to shared Values. It is a thin value
// type over a map: copying a Dictionary shares the backing map (and so
// shares every bound Value) until Copy is called to snapshot a new map
// — the mechanism `lam` and `fun` use to capture an environment.
type Dictionary struct {
	entries map[string]Value
}

// NewDictionary returns an empty, ready-to-use Dictionary.
func NewDictionary() Dictionary {
	return Dictionary{entries: make(map[string]Value)}
}

func (d Dictionary) ensure() map[string]Value {
	if d.entries == nil {
		// A zero-value Dictionary (e.g. a freshly built ExeArr's Dict
		// field before `lam`/`fun` attach one) has no map yet; callers
		// that only read see this as empty, which Get/Keys/Print below
		// already handle without allocating.
		return nil
	}
	return d.entries
}

// Get looks up name, returning the bound Value and whether it was found.
func (d Dictionary) Get(name string) (Value, bool) {
	m := d.ensure()
	if m == nil {
		return nil, false
	}
	v, ok := m[name]
	return v, ok
}

// Set binds name to v, overwriting any existing binding.
func (d Dictionary) Set(name string, v Value) {
	if d.entries == nil {
		panic("types: Set on an uninitialized Dictionary; use NewDictionary()")
	}
	d.entries[name] = v
}

// DefineNative registers a native primitive under name.
func (d Dictionary) DefineNative(name string, fn func(ctx NativeContext) error) {
	d.Set(name, &Native{Name: name, Fn: fn})
}

// Copy returns a Dictionary with a new backing map holding the same
// bindings (the Values themselves are shared, not deep-copied).
func (d Dictionary) Copy() Dictionary {
	src := d.ensure()
	dst := make(map[string]Value, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return Dictionary{entries: dst}
}

// Keys returns the dictionary's names, sorted, for shell completion.
func (d Dictionary) Keys() []string {
	m := d.ensure()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of bindings.
func (d Dictionary) Len() int { return len(d.ensure()) }

// Print writes "{ k:v k:v … }" to w, in key order.
func (d Dictionary) Print(w io.Writer) {
	keys := d.Keys()
	fmt.Fprint(w, "{ ")
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, _ := d.Get(k)
		parts = append(parts, k+":"+v.String())
	}
	fmt.Fprint(w, strings.Join(parts, " "))
	if len(parts) > 0 {
		fmt.Fprint(w, " ")
	}
	fmt.Fprint(w, "}")
}
