package minecode

// Pos is the source line of the token that defines a node.
type Pos int

func (p Pos) Line() int {
	return int(p)
}

// Node is implemented by every AST node. The set of nodes is closed: the
// unexported marker methods keep other packages from adding new ones.
type Node interface {
	Line() int
	node()
}

// Stmt is a node that can appear in a Program or a Block.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is a node that produces a value.
type Expr interface {
	Node
	exprNode()
}

type Program struct {
	Pos
	Declarations []Stmt
}

type Block struct {
	Pos
	Statements []Stmt
}

type FunctionDecl struct {
	Pos
	Name       string
	Params     []*Identifier
	ReturnType *TypeRef
	Body       *Block
}

type VariableDecl struct {
	Pos
	Name  string
	Type  *TypeRef // nil when the declaration has no annotation
	Value Expr     // nil when the declaration has no initializer
}

type Assignment struct {
	Pos
	Name  string
	Value Expr
}

type If struct {
	Pos
	Cond Expr
	Then *Block
	Else Stmt // nil, *Block or a chained *If
}

type While struct {
	Pos
	Cond Expr
	Body *Block
}

type Return struct {
	Pos
	Value Expr // nil for a bare return
}

type Print struct {
	Pos
	Value Expr
}

type ExpressionStatement struct {
	Pos
	Expr Expr
}

type BinaryOp string

const (
	BinaryAddition       BinaryOp = "+"
	BinarySubtraction    BinaryOp = "-"
	BinaryMultiplication BinaryOp = "*"
	BinaryDivision       BinaryOp = "/"
	BinaryEqual          BinaryOp = "=="
	BinaryNotEqual       BinaryOp = "!="
	BinaryLess           BinaryOp = "<"
	BinaryGreater        BinaryOp = ">"
	BinaryLessEqual      BinaryOp = "<="
	BinaryGreaterEqual   BinaryOp = ">="
	BinaryAnd            BinaryOp = "&&"
	BinaryOr             BinaryOp = "||"
)

type BinaryExpr struct {
	Pos
	Operation BinaryOp
	Op1       Expr
	Op2       Expr
}

type Identifier struct {
	Pos
	Name string
}

type Literal struct {
	Pos
	Value Value
}

type Call struct {
	Pos
	Name string
	Args []Expr
}

// TypeKind is the declared type tag of a symbol.
type TypeKind int

const (
	TypeUnknown TypeKind = iota
	TypeRedstone
	TypeEmerald
	TypeObsidian
	TypeNether
	TypeEnder
	TypeVoid
)

var typeNames = map[string]TypeKind{
	"redstone": TypeRedstone,
	"emerald":  TypeEmerald,
	"obsidian": TypeObsidian,
	"nether":   TypeNether,
	"ender":    TypeEnder,
	"void":     TypeVoid,
	"int":      TypeRedstone,
	"float":    TypeEmerald,
	"string":   TypeObsidian,
	"boolean":  TypeNether,
	"array":    TypeEnder,
}

// ParseTypeKind accepts both the MineCode name and its plain alias.
func ParseTypeKind(name string) TypeKind {
	if k, ok := typeNames[name]; ok {
		return k
	}

	return TypeUnknown
}

func (k TypeKind) String() string {
	switch k {
	case TypeRedstone:
		return "redstone"
	case TypeEmerald:
		return "emerald"
	case TypeObsidian:
		return "obsidian"
	case TypeNether:
		return "nether"
	case TypeEnder:
		return "ender"
	case TypeVoid:
		return "void"
	}

	return "unknown"
}

type TypeRef struct {
	Pos
	Name string
	Kind TypeKind
}

func (*Program) node()             {}
func (*Block) node()               {}
func (*FunctionDecl) node()        {}
func (*VariableDecl) node()        {}
func (*Assignment) node()          {}
func (*If) node()                  {}
func (*While) node()               {}
func (*Return) node()              {}
func (*Print) node()               {}
func (*ExpressionStatement) node() {}
func (*BinaryExpr) node()          {}
func (*Identifier) node()          {}
func (*Literal) node()             {}
func (*Call) node()                {}
func (*TypeRef) node()             {}

func (*Block) stmtNode()               {}
func (*FunctionDecl) stmtNode()        {}
func (*VariableDecl) stmtNode()        {}
func (*Assignment) stmtNode()          {}
func (*If) stmtNode()                  {}
func (*While) stmtNode()               {}
func (*Return) stmtNode()              {}
func (*Print) stmtNode()               {}
func (*ExpressionStatement) stmtNode() {}

func (*BinaryExpr) exprNode() {}
func (*Identifier) exprNode() {}
func (*Literal) exprNode()    {}
func (*Call) exprNode()       {}
