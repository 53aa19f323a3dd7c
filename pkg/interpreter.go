package minecode

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

var (
	ErrDivisionByZero      = errors.New("division by zero")
	ErrUndefinedVariable   = errors.New("undefined variable")
	ErrUndefinedFunction   = errors.New("undefined function")
	ErrUnsupportedOperator = errors.New("unsupported operator")
	ErrLoopLimit           = errors.New("loop iteration limit exceeded")
	ErrCallDepth           = errors.New("call depth limit exceeded")
	ErrNativeCall          = errors.New("native function failed")
)

// RuntimeError is a fatal fault that aborted an interpretation. Err is one
// of the Err* sentinels.
type RuntimeError struct {
	Line   int
	Err    error
	Detail string
}

func (e *RuntimeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Err)
	}

	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Err, e.Detail)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func fault(line int, err error, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{
		Line:   line,
		Err:    err,
		Detail: fmt.Sprintf(format, args...),
	}
}

const (
	DefaultMaxLoopIterations = 1000
	DefaultMaxCallDepth      = 1024
)

type Limits struct {
	MaxLoopIterations int
	MaxCallDepth      int
}

func DefaultLimits() Limits {
	return Limits{
		MaxLoopIterations: DefaultMaxLoopIterations,
		MaxCallDepth:      DefaultMaxCallDepth,
	}
}

func (l Limits) withDefaults() Limits {
	if l.MaxLoopIterations <= 0 {
		l.MaxLoopIterations = DefaultMaxLoopIterations
	}
	if l.MaxCallDepth <= 0 {
		l.MaxCallDepth = DefaultMaxCallDepth
	}

	return l
}

// Environment is one runtime scope.
type Environment struct {
	parent *Environment
	values map[string]Value
}

func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		parent: parent,
		values: make(map[string]Value),
	}
}

func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}

	return Void(), false
}

// Define binds name in this scope, shadowing any outer binding.
func (e *Environment) Define(name string, v Value) {
	e.values[name] = v
}

// Assign updates the nearest existing binding, or defines name here when
// there is none.
func (e *Environment) Assign(name string, v Value) {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = v
			return
		}
	}

	e.values[name] = v
}

// outcome is how a statement finished: normally, or unwinding a return
// towards its call site.
type outcome struct {
	value     Value
	returning bool
}

func normal(v Value) outcome {
	return outcome{value: v}
}

func returning(v Value) outcome {
	return outcome{value: v, returning: true}
}

// Result is what a completed run produced.
type Result struct {
	Value       Value
	Output      []string
	Diagnostics Diagnostics
}

type Option func(*Interpreter)

// WithOutput streams every printed line to w as well as recording it.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		in.out = w
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

// WithLimits replaces the default limits. Fields that are not positive keep
// their default.
func WithLimits(limits Limits) Option {
	return func(in *Interpreter) {
		in.limits = limits.withDefaults()
	}
}

// WithDebugListener installs l and turns debug mode on.
func WithDebugListener(l DebugListener) Option {
	return func(in *Interpreter) {
		in.debug.SetListener(l)
		in.debug.SetEnabled(true)
	}
}

// Interpreter walks a checked program. An instance runs one program at a
// time; the debug control methods may be called from other goroutines while
// it runs.
type Interpreter struct {
	natives Natives
	limits  Limits
	logger  *slog.Logger
	out     io.Writer
	debug   *Debugger

	functions map[string]*FunctionDecl
	global    *Environment
	env       *Environment
	depth     int
	output    []string
}

func NewInterpreter(natives Natives, opts ...Option) *Interpreter {
	if natives == nil {
		natives = Natives{}
	}

	in := &Interpreter{
		natives: natives,
		limits:  DefaultLimits(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		debug:   NewDebugger(),
	}

	for _, opt := range opts {
		opt(in)
	}

	in.reset()
	return in
}

// Interpret checks prog against natives and runs it when the checker has
// nothing to report; otherwise the diagnostics come back in the Result and
// nothing is executed. A non-nil listener turns debug mode on.
func Interpret(prog *Program, natives Natives, listener DebugListener) (*Result, error) {
	if diags := NewChecker(natives).Do(prog); diags.HasErrors() {
		return &Result{Value: Void(), Diagnostics: diags}, nil
	}

	var opts []Option
	if listener != nil {
		opts = append(opts, WithDebugListener(listener))
	}

	return NewInterpreter(natives, opts...).Interpret(prog)
}

func (in *Interpreter) Debugger() *Debugger {
	return in.debug
}

func (in *Interpreter) SetDebugMode(enabled bool) {
	in.debug.SetEnabled(enabled)
}

func (in *Interpreter) SetDebugListener(l DebugListener) {
	in.debug.SetListener(l)
}

func (in *Interpreter) AddBreakpoint(line int) {
	in.debug.AddBreakpoint(line)
	in.logger.Debug("breakpoint added", "line", line)
}

func (in *Interpreter) RemoveBreakpoint(line int) {
	in.debug.RemoveBreakpoint(line)
	in.logger.Debug("breakpoint removed", "line", line)
}

func (in *Interpreter) ResumeExecution() {
	in.debug.Resume()
}

func (in *Interpreter) reset() {
	in.functions = make(map[string]*FunctionDecl)
	in.global = NewEnvironment(nil)
	in.env = in.global
	in.depth = 0
	in.output = nil
}

// Interpret registers every function and then runs the remaining top-level
// declarations in order against the global scope. The result value is the
// value of the last statement executed. On a fault the partial output is
// still returned alongside the *RuntimeError.
func (in *Interpreter) Interpret(prog *Program) (*Result, error) {
	in.reset()

	for _, decl := range prog.Declarations {
		if fn, ok := decl.(*FunctionDecl); ok {
			in.functions[fn.Name] = fn
			in.logger.Debug("function registered", "name", fn.Name, "line", fn.Line())
		}
	}

	result := Void()
	for _, decl := range prog.Declarations {
		if _, ok := decl.(*FunctionDecl); ok {
			continue
		}

		out, err := in.exec(decl)
		if err != nil {
			in.logger.Debug("run aborted", "err", err)
			return &Result{Value: result, Output: in.output}, err
		}

		result = out.value
		if out.returning {
			break
		}
	}

	return &Result{Value: result, Output: in.output}, nil
}

func (in *Interpreter) exec(stmt Stmt) (outcome, error) {
	if _, isBlock := stmt.(*Block); !isBlock {
		if in.debug.checkpoint(stmt.Line(), in.snapshot) {
			in.logger.Debug("resumed after breakpoint", "line", stmt.Line())
		}
	}

	switch s := stmt.(type) {
	case *FunctionDecl:
		// Registered before the run starts
		return normal(Void()), nil
	case *VariableDecl:
		v := Text("")
		if s.Value != nil {
			var err error
			if v, err = in.eval(s.Value); err != nil {
				return outcome{}, err
			}
		}

		in.env.Define(s.Name, v)
		return normal(v), nil
	case *Assignment:
		v, err := in.eval(s.Value)
		if err != nil {
			return outcome{}, err
		}

		in.env.Assign(s.Name, v)
		return normal(v), nil
	case *Block:
		return in.block(s, NewEnvironment(in.env))
	case *If:
		cond, err := in.eval(s.Cond)
		if err != nil {
			return outcome{}, err
		}

		if cond.Truthy() {
			return in.exec(s.Then)
		}

		if s.Else != nil {
			return in.exec(s.Else)
		}

		return normal(Void()), nil
	case *While:
		return in.loop(s)
	case *Return:
		v := Void()
		if s.Value != nil {
			var err error
			if v, err = in.eval(s.Value); err != nil {
				return outcome{}, err
			}
		}

		return returning(v), nil
	case *Print:
		v, err := in.eval(s.Value)
		if err != nil {
			return outcome{}, err
		}

		in.print(v)
		return normal(v), nil
	case *ExpressionStatement:
		v, err := in.eval(s.Expr)
		if err != nil {
			return outcome{}, err
		}

		return normal(v), nil
	}

	return normal(Void()), nil
}

// block runs b inside env and restores the previous scope however it ends.
func (in *Interpreter) block(b *Block, env *Environment) (outcome, error) {
	prev := in.env
	in.env = env
	defer func() {
		in.env = prev
	}()

	last := Void()
	for _, stmt := range b.Statements {
		out, err := in.exec(stmt)
		if err != nil {
			return outcome{}, err
		}

		if out.returning {
			return out, nil
		}

		last = out.value
	}

	return normal(last), nil
}

func (in *Interpreter) loop(s *While) (outcome, error) {
	last := Void()
	for iterations := 0; ; iterations++ {
		cond, err := in.eval(s.Cond)
		if err != nil {
			return outcome{}, err
		}

		if !cond.Truthy() {
			return normal(last), nil
		}

		if iterations >= in.limits.MaxLoopIterations {
			return outcome{}, fault(s.Line(), ErrLoopLimit, "more than %d iterations", in.limits.MaxLoopIterations)
		}

		in.logger.Debug("loop iteration", "line", s.Line(), "iteration", iterations+1)

		out, err := in.exec(s.Body)
		if err != nil {
			return outcome{}, err
		}

		if out.returning {
			return out, nil
		}

		last = out.value
	}
}

func (in *Interpreter) eval(expr Expr) (Value, error) {
	switch e := expr.(type) {
	case *Literal:
		return e.Value, nil
	case *Identifier:
		v, ok := in.env.Get(e.Name)
		if !ok {
			return Void(), fault(e.Line(), ErrUndefinedVariable, "%s", e.Name)
		}

		return v, nil
	case *BinaryExpr:
		l, err := in.eval(e.Op1)
		if err != nil {
			return Void(), err
		}

		r, err := in.eval(e.Op2)
		if err != nil {
			return Void(), err
		}

		v, err := applyBinary(e.Operation, l, r)
		if err != nil {
			return Void(), &RuntimeError{Line: e.Line(), Err: err, Detail: string(e.Operation)}
		}

		return v, nil
	case *Call:
		return in.call(e)
	}

	return Void(), fmt.Errorf("line %d: unknown expression %T", expr.Line(), expr)
}

func (in *Interpreter) args(exprs []Expr) ([]Value, error) {
	args := make([]Value, 0, len(exprs))
	for _, arg := range exprs {
		v, err := in.eval(arg)
		if err != nil {
			return nil, err
		}

		args = append(args, v)
	}

	return args, nil
}

func (in *Interpreter) call(c *Call) (Value, error) {
	if native, ok := in.natives.Lookup(c.Name); ok {
		args, err := in.args(c.Args)
		if err != nil {
			return Void(), err
		}

		v, err := native(args)
		if err != nil {
			return Void(), fault(c.Line(), ErrNativeCall, "%s: %v", c.Name, err)
		}

		in.logger.Debug("native call", "name", c.Name, "result", v.String())
		return v, nil
	}

	fn, ok := in.functions[c.Name]
	if !ok {
		return Void(), fault(c.Line(), ErrUndefinedFunction, "%s", c.Name)
	}

	args, err := in.args(c.Args)
	if err != nil {
		return Void(), err
	}

	if in.depth >= in.limits.MaxCallDepth {
		return Void(), fault(c.Line(), ErrCallDepth, "calling %s", c.Name)
	}

	// Bodies see their parameters and the globals, never the caller's locals
	frame := NewEnvironment(in.global)
	for i, param := range fn.Params {
		v := Text("")
		if i < len(args) {
			v = args[i]
		}

		frame.Define(param.Name, v)
	}

	in.logger.Debug("call", "name", c.Name, "line", c.Line(), "depth", in.depth+1)

	in.depth++
	out, err := in.block(fn.Body, NewEnvironment(frame))
	in.depth--
	if err != nil {
		return Void(), err
	}

	if !out.returning {
		return Void(), nil
	}

	in.logger.Debug("return", "name", c.Name, "value", out.value.String())
	return out.value, nil
}

func (in *Interpreter) print(v Value) {
	line := v.String()
	in.output = append(in.output, line)

	if in.out != nil {
		fmt.Fprintln(in.out, line)
	}
}

// snapshot copies every variable visible from the current scope; inner
// bindings hide outer ones.
func (in *Interpreter) snapshot() map[string]Value {
	var chain []*Environment
	for env := in.env; env != nil; env = env.parent {
		chain = append(chain, env)
	}

	vars := make(map[string]Value)
	for i := len(chain) - 1; i >= 0; i-- {
		for name, v := range chain[i].values {
			vars[name] = v
		}
	}

	return vars
}
