package minecode

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Line: 3, Message: "unexpected ';'", Category: CategorySyntax}
	assert.Equal(t, "line 3: syntax error: unexpected ';'", d.String())
}

func TestDiagnosticMake(t *testing.T) {
	file := NewSourceFile("world.mc", "chest a -> 1\nprint b\n")
	d := Diagnostic{Line: 2, Message: "variable 'b' is not declared", Category: CategorySemantic}

	expect := strings.Join([]string{
		"error: semantic error",
		"  --> world.mc:2",
		"   |",
		" 2 | print b",
		"   | variable 'b' is not declared",
	}, "\n")

	assert.Equal(t, expect, d.Make(file, false))
}

func TestDiagnosticMakeWithoutSource(t *testing.T) {
	d := Diagnostic{Line: 40, Message: "unrecognized token '@'", Category: CategoryLexical}
	out := d.Make(nil, false)

	assert.Contains(t, out, "<input>:40")
	assert.NotContains(t, out, "40 |")
	assert.True(t, strings.HasSuffix(out, "unrecognized token '@'"))
}

func TestDiagnosticMakeConcurrent(t *testing.T) {
	file := NewSourceFile("world.mc", "print b\n")
	d := Diagnostic{Line: 1, Message: "variable 'b' is not declared", Category: CategorySemantic}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(withColor bool) {
			defer wg.Done()

			out := d.Make(file, withColor)
			assert.Equal(t, withColor, strings.Contains(out, "\x1b["))
		}(i%2 == 0)
	}

	wg.Wait()
}

func TestDiagnosticsFilter(t *testing.T) {
	diags := Diagnostics{
		{Line: 1, Category: CategoryLexical},
		{Line: 2, Category: CategorySemantic},
		{Line: 3, Category: CategorySemantic},
	}

	assert.True(t, diags.HasErrors())
	assert.False(t, Diagnostics(nil).HasErrors())
	assert.Len(t, diags.Filter(CategorySemantic), 2)
	assert.Empty(t, diags.Filter(CategorySyntax))
}
