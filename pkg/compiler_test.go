package minecode

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilerCompile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.mc")
	require.NoError(t, os.WriteFile(path, []byte("chest a -> 2\nprint a * 21\n"), 0o644))

	c := NewCompiler(nil)
	prog, diags, err := c.Compile(path)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Len(t, prog.Declarations, 2)

	_, _, err = c.Compile(filepath.Join(t.TempDir(), "missing.mc"))
	assert.Error(t, err)
}

func TestCompilerDiagnostics(t *testing.T) {
	source := `chest a -> @ 1
chest a -> 2
print (3
print missing`

	_, diags := NewCompiler(nil).CompileFromReader("broken.mc", strings.NewReader(source))

	assert.Len(t, diags.Filter(CategoryLexical), 1)
	assert.Len(t, diags.Filter(CategorySyntax), 1)
	assert.NotEmpty(t, diags.Filter(CategorySemantic))
}

func TestCompilerRun(t *testing.T) {
	var buf bytes.Buffer

	res, err := NewCompiler(nil).Run("ok.mc", strings.NewReader("print \"mined\""), WithOutput(&buf))
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, []string{"mined"}, res.Output)
	assert.Equal(t, "mined\n", buf.String())
}

func TestCompilerRunWithDiagnostics(t *testing.T) {
	res, err := NewCompiler(nil).Run("bad.mc", strings.NewReader("print 1\nprint missing"))
	require.NoError(t, err)

	// Nothing runs when the program has diagnostics
	assert.Empty(t, res.Output)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, 2, res.Diagnostics[0].Line)
}

func TestCompilerRunFault(t *testing.T) {
	_, err := NewCompiler(nil).Run("div.mc", strings.NewReader("print 1 / 0"))
	assert.True(t, errors.Is(err, ErrDivisionByZero))
}

func TestCompilerConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits.MaxLoopIterations = 5
	cfg.Breakpoints = []int{2}

	c := NewCompiler(cfg)
	in := c.NewInterpreter()
	assert.Equal(t, []int{2}, in.Debugger().Breakpoints())
	assert.False(t, in.Debugger().Enabled())

	_, err := c.Run("loop.mc", strings.NewReader("chest i -> 0\npiston_loop i < 10 crafting_table i -> i + 1 end_portal"))
	assert.True(t, errors.Is(err, ErrLoopLimit))

	cfg.Debug = true
	assert.True(t, NewCompiler(cfg).NewInterpreter().Debugger().Enabled())
}

func TestCompilerZeroConfig(t *testing.T) {
	res, err := NewCompiler(&Config{}).Run("zero.mc", strings.NewReader(
		"enchant_func twice(n) crafting_table nether_return n * 2 end_portal\nprint twice(4)"))
	require.NoError(t, err)
	assert.Equal(t, []string{"8"}, res.Output)
}

func TestCompilerNatives(t *testing.T) {
	c := NewCompiler(nil)
	c.Natives().Register("villager_trade", func(args []Value) (Value, error) {
		return Text("emerald"), nil
	})

	res, err := c.Run("trade.mc", strings.NewReader("print villager_trade()"))
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, []string{"emerald"}, res.Output)
}
