package minecode

import "fmt"

type Symbol struct {
	Name       string
	Type       TypeKind
	IsFunction bool
}

// SymbolTable is one scope. Lookups that miss fall through to Parent; the
// global table has none.
type SymbolTable struct {
	Parent  *SymbolTable
	Entries map[string]*Symbol
}

func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{
		Parent:  parent,
		Entries: make(map[string]*Symbol),
	}
}

// Add declares sym in this scope. It reports false, leaving the table
// untouched, if the name is already taken here.
func (t *SymbolTable) Add(sym *Symbol) bool {
	if _, exists := t.Entries[sym.Name]; exists {
		return false
	}

	t.Entries[sym.Name] = sym
	return true
}

// Get only looks at this scope.
func (t *SymbolTable) Get(name string) *Symbol {
	return t.Entries[name]
}

// Resolve walks outwards to the global scope.
func (t *SymbolTable) Resolve(name string) *Symbol {
	for s := t; s != nil; s = s.Parent {
		if sym, ok := s.Entries[name]; ok {
			return sym
		}
	}

	return nil
}

type SemanticAnalyser interface {
	Do(prog *Program) Diagnostics
}

// Checker verifies existence and kind rules over a parsed program. It never
// stops early; every problem becomes a semantic diagnostic.
type Checker struct {
	natives Natives

	global  *SymbolTable
	scope   *SymbolTable
	current *Symbol // enclosing function, nil at top level
	diags   Diagnostics
}

func NewChecker(natives Natives) *Checker {
	return &Checker{natives: natives}
}

// Check analyses prog against the default native registry.
func Check(prog *Program) Diagnostics {
	return NewChecker(DefaultNatives()).Do(prog)
}

func (c *Checker) Do(prog *Program) Diagnostics {
	c.global = NewSymbolTable(nil)
	c.scope = c.global
	c.current = nil
	c.diags = nil

	for name := range c.natives {
		c.global.Add(&Symbol{Name: name, Type: TypeUnknown, IsFunction: true})
	}

	// Functions first so bodies can call functions declared after them
	for _, decl := range prog.Declarations {
		if fn, ok := decl.(*FunctionDecl); ok {
			c.declare(fn.Line(), &Symbol{
				Name:       fn.Name,
				Type:       returnType(fn),
				IsFunction: true,
			})
		}
	}

	for _, decl := range prog.Declarations {
		c.stmt(decl)
	}

	return c.diags
}

func (c *Checker) errorf(line int, format string, args ...interface{}) {
	c.diags = append(c.diags, Diagnostic{
		Line:     line,
		Message:  fmt.Sprintf(format, args...),
		Category: CategorySemantic,
	})
}

func (c *Checker) declare(line int, sym *Symbol) {
	if !c.scope.Add(sym) {
		c.errorf(line, "'%s' is already declared in this scope", sym.Name)
	}
}

func (c *Checker) push() {
	c.scope = NewSymbolTable(c.scope)
}

func (c *Checker) pop() {
	c.scope = c.scope.Parent
}

func (c *Checker) stmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *FunctionDecl:
		c.function(s)
	case *VariableDecl:
		if s.Value != nil {
			c.expr(s.Value)
		}

		typ := TypeUnknown
		if s.Type != nil {
			typ = s.Type.Kind
		}

		c.declare(s.Line(), &Symbol{Name: s.Name, Type: typ})
	case *Assignment:
		sym := c.scope.Resolve(s.Name)
		switch {
		case sym == nil:
			c.errorf(s.Line(), "variable '%s' is not declared", s.Name)
		case sym.IsFunction:
			c.errorf(s.Line(), "'%s' is a function, not a variable", s.Name)
		}

		c.expr(s.Value)
	case *Block:
		c.push()
		for _, child := range s.Statements {
			c.stmt(child)
		}
		c.pop()
	case *If:
		c.expr(s.Cond)
		c.stmt(s.Then)
		if s.Else != nil {
			c.stmt(s.Else)
		}
	case *While:
		c.expr(s.Cond)
		c.stmt(s.Body)
	case *Return:
		if c.current == nil {
			c.errorf(s.Line(), "return outside of a function")
			if s.Value != nil {
				c.expr(s.Value)
			}
			return
		}

		if s.Value != nil {
			c.expr(s.Value)
		} else if c.current.Type != TypeVoid {
			c.errorf(s.Line(), "function '%s' must return a %s value", c.current.Name, c.current.Type)
		}
	case *Print:
		c.expr(s.Value)
	case *ExpressionStatement:
		c.expr(s.Expr)
	}
}

func (c *Checker) function(fn *FunctionDecl) {
	prev := c.current
	c.current = c.global.Get(fn.Name)
	if c.current == nil || !c.current.IsFunction {
		// Only reachable for nested declarations, which the parser rejects
		c.current = &Symbol{Name: fn.Name, Type: returnType(fn), IsFunction: true}
	}

	c.push()
	for _, param := range fn.Params {
		c.declare(param.Line(), &Symbol{Name: param.Name, Type: TypeUnknown})
	}

	if fn.Body != nil {
		c.stmt(fn.Body)
	}

	c.pop()
	c.current = prev
}

func (c *Checker) expr(expr Expr) {
	switch e := expr.(type) {
	case *BinaryExpr:
		c.expr(e.Op1)
		c.expr(e.Op2)
	case *Identifier:
		sym := c.scope.Resolve(e.Name)
		switch {
		case sym == nil:
			c.errorf(e.Line(), "variable '%s' is not declared", e.Name)
		case sym.IsFunction:
			c.errorf(e.Line(), "'%s' is a function, not a variable", e.Name)
		}
	case *Call:
		sym := c.scope.Resolve(e.Name)
		switch {
		case sym == nil:
			c.errorf(e.Line(), "function '%s' is not declared", e.Name)
		case !sym.IsFunction:
			c.errorf(e.Line(), "'%s' is not a function", e.Name)
		}

		for _, arg := range e.Args {
			c.expr(arg)
		}
	case *Literal:
		// Always valid
	}
}

// returnType treats a missing annotation as void.
func returnType(fn *FunctionDecl) TypeKind {
	if fn.ReturnType == nil {
		return TypeVoid
	}

	return fn.ReturnType.Kind
}
