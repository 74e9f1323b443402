package pyast

// MemberKind identifies how a module-scope name is bound.
type MemberKind string

const (
	MemberImport   MemberKind = "import"
	MemberClass    MemberKind = "class"
	MemberFunction MemberKind = "function"
	MemberAssign   MemberKind = "assign"
)

// ValueKind classifies a literal argument of a decorator call.
type ValueKind string

const (
	ValueString ValueKind = "str"
	ValueInt    ValueKind = "int"
	ValueBool   ValueKind = "bool"
	ValueNone   ValueKind = "None"
	// ValueOther is any expression that cannot be evaluated statically.
	ValueOther ValueKind = "expr"
)

// Value is a statically evaluated decorator argument.
type Value struct {
	Kind ValueKind
	Str  string
	Int  int
	Bool bool
	Text string // source text, always set
}

// Keyword is a keyword argument of a decorator call.
type Keyword struct {
	Name  string
	Value Value
}

// Decorator is one decorator applied to a module-scope definition.
type Decorator struct {
	// Callee is the dotted name of the decorator, e.g. "public" or "apigen.public".
	// It is empty when the decorator is not a (possibly called) dotted name.
	Callee   string
	Call     bool
	Args     []Value
	Keywords []Keyword
	Line     int
}

// Keyword returns the keyword argument called name.
func (d Decorator) Keyword(name string) (Value, bool) {
	for _, kw := range d.Keywords {
		if kw.Name == name {
			return kw.Value, true
		}
	}
	return Value{}, false
}

// Import describes the target of an import binding.
// Level is the number of leading dots of a relative import; Path is the dotted
// path after them (for "from . import x" Path is "x").
type Import struct {
	Level int
	Path  string
}

// Member is a name bound at module scope, in source order.
type Member struct {
	Kind       MemberKind
	Name       string
	Line       int
	Import     *Import     // MemberImport
	Ref        string      // MemberAssign: dotted name on the right-hand side, if any
	Decorators []Decorator // MemberClass, MemberFunction
}

// Module is the statically extracted content of one Python source file.
type Module struct {
	Members []Member
	// SyntaxErrors is set when tree-sitter recovered from errors; Members then
	// holds whatever could still be extracted.
	SyntaxErrors bool
}
