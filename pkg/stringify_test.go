package minecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringifyAST(t *testing.T) {
	source := `enchant_func area(w, h): redstone crafting_table
	nether_return w * h
end_portal
chest name: obsidian -> "steve"
piston_loop torch_off crafting_table end_portal
redstone_if area(2, 3) > 5 crafting_table
	print name
end_portal slime_else crafting_table
	nether_return
end_portal`

	prog, diags := Parse(source)
	require.Empty(t, diags)

	expect := `(program
  (func area (w h) redstone (block
    (return (* w h))))
  (var name :obsidian "steve")
  (while false (block))
  (if (> (area 2 3) 5) (block
    (print name)) (block
    (return))))`

	assert.Equal(t, expect, StringifyAST(prog))
}

func TestStringifyLiterals(t *testing.T) {
	prog, diags := Parse("print 1.5 + \"a\\b\"\nworld_time()")
	require.Empty(t, diags)

	assert.Equal(t, "(program\n  (print (+ 1.5 \"a\\\\b\"))\n  (world_time))", StringifyAST(prog))
}

func TestStringifyEmpty(t *testing.T) {
	assert.Equal(t, "(program\n)", StringifyAST(&Program{Pos: 1}))
}
