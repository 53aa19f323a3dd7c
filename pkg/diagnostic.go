package minecode

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

type Category int

const (
	CategoryLexical Category = iota
	CategorySyntax
	CategorySemantic
)

func (c Category) String() string {
	switch c {
	case CategoryLexical:
		return "lexical error"
	case CategorySyntax:
		return "syntax error"
	case CategorySemantic:
		return "semantic error"
	}

	return "error"
}

// Diagnostic is a recorded analysis finding. Diagnostics never stop the
// stage that produced them.
type Diagnostic struct {
	Line     int
	Message  string
	Category Category
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s: %s", d.Line, d.Category, d.Message)
}

type Diagnostics []Diagnostic

func (ds Diagnostics) HasErrors() bool {
	return len(ds) > 0
}

func (ds Diagnostics) Filter(c Category) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Category == c {
			out = append(out, d)
		}
	}

	return out
}

// SourceFile caches a file's lines so diagnostics can quote them.
type SourceFile struct {
	Filename string
	Contents string
	Lines    []string
}

func NewSourceFile(filename, contents string) *SourceFile {
	return &SourceFile{
		Filename: filename,
		Contents: contents,
		Lines:    strings.SplitAfter(contents, "\n"),
	}
}

// Make renders the diagnostic as
//
//	error: <category>
//	  --> <filename>:<line>
//	   |
//	 3 | <offending line>
//	   | <message>
func (d Diagnostic) Make(file *SourceFile, withColor bool) string {
	paint := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if withColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}

		return c.SprintFunc()
	}

	redBold := paint(color.FgRed, color.Bold)
	red := paint(color.FgRed)
	blue := paint(color.FgBlue)

	margin := len(fmt.Sprintf("%d", d.Line))
	pad := strings.Repeat(" ", margin)

	filename := "<input>"
	if file != nil && file.Filename != "" {
		filename = file.Filename
	}

	lines := []string{
		redBold("error: " + d.Category.String()),
		fmt.Sprintf(" %s%s %s:%d", pad, blue("-->"), filename, d.Line),
		blue(fmt.Sprintf(" %s |", pad)),
	}

	if file != nil && d.Line >= 1 && d.Line <= len(file.Lines) {
		src := strings.TrimRight(file.Lines[d.Line-1], "\r\n")
		lines = append(lines, fmt.Sprintf(" %s %s %s", blue(fmt.Sprintf("%*d", margin, d.Line)), blue("|"), src))
	}

	lines = append(lines, fmt.Sprintf(" %s %s %s", pad, blue("|"), red(d.Message)))

	return strings.Join(lines, "\n")
}
