package minecode

import (
	"io"
	"log/slog"
)

// Compiler wires the pipeline together: scanner, parser, checker and, for
// programs without diagnostics, a freshly built interpreter per run.
type Compiler struct {
	cfg     *Config
	natives Natives
	logger  *slog.Logger
}

func NewCompiler(cfg *Config) *Compiler {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return &Compiler{
		cfg:     cfg,
		natives: DefaultNatives(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (c *Compiler) Config() *Config {
	return c.cfg
}

// Natives is the registry shared by the checker and every interpreter this
// compiler builds. Register host functions on it before compiling.
func (c *Compiler) Natives() Natives {
	return c.natives
}

func (c *Compiler) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// Compile runs the front end on a file. The error is only set when the file
// cannot be read; problems in the source are reported as diagnostics.
func (c *Compiler) Compile(filename string) (*Program, Diagnostics, error) {
	lexer, err := NewLexer(filename)
	if err != nil {
		return nil, nil, err
	}

	prog, diags := c.compile(NewParser(lexer))
	return prog, diags, nil
}

func (c *Compiler) CompileFromReader(name string, reader io.Reader) (*Program, Diagnostics) {
	lexer := NewLexerFromReader(reader)
	lexer.filename = name

	return c.compile(NewParser(lexer))
}

func (c *Compiler) compile(p SyntacticAnalyzer) (*Program, Diagnostics) {
	prog, diags := p.Run()
	diags = append(diags, NewChecker(c.natives).Do(prog)...)

	c.logger.Debug("compiled",
		"file", p.GetFilename(),
		"declarations", len(prog.Declarations),
		"diagnostics", len(diags))

	return prog, diags
}

// NewInterpreter builds an interpreter configured from the compiler's
// Config. Options are applied after the configured ones.
func (c *Compiler) NewInterpreter(opts ...Option) *Interpreter {
	base := []Option{
		WithLimits(c.cfg.Limits),
		WithLogger(c.logger),
	}

	in := NewInterpreter(c.natives, append(base, opts...)...)
	if c.cfg.Debug {
		in.SetDebugMode(true)
	}

	for _, line := range c.cfg.Breakpoints {
		in.AddBreakpoint(line)
	}

	return in
}

// Run compiles source and interprets it when no diagnostics were found.
// Diagnostics are returned in the Result, runtime faults as the error.
func (c *Compiler) Run(name string, reader io.Reader, opts ...Option) (*Result, error) {
	prog, diags := c.CompileFromReader(name, reader)
	if diags.HasErrors() {
		return &Result{Diagnostics: diags}, nil
	}

	return c.NewInterpreter(opts...).Interpret(prog)
}
