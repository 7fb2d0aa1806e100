package ffi

import (
	"testing"

	"github.com/postfixlang/postfix/pkg/types"
)

func TestStemDerivation(t *testing.T) {
	cases := map[string]string{
		"./ext/math.so":  "Math",
		"example.so":     "Example",
		"/abs/path/io.so": "Io",
	}
	for path, want := range cases {
		if got := stem(path); got != want {
			t.Errorf("stem(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestLoadMissingFileFailsWithLoadFailed(t *testing.T) {
	err := Load("/nonexistent/path/to/extension.so", types.NewDictionary())
	if err == nil {
		t.Fatal("Load of a nonexistent file should fail")
	}
	if kind, ok := types.KindOf(err); !ok || kind != types.LoadFailed {
		t.Fatalf("error kind = %v, want LoadFailed", kind)
	}
}
