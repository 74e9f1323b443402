// Package pyast extracts module-scope bindings and decorator usage from Python
// source code with tree-sitter, without importing or executing it.
package pyast

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// DefaultMaxFileSize is the largest source file Parse accepts.
const DefaultMaxFileSize = 10 * 1024 * 1024

var (
	// ErrFileTooLarge is returned for files larger than the parser limit.
	ErrFileTooLarge = errors.New("file too large")
	// ErrInvalidContent is returned for files that are not valid UTF-8.
	ErrInvalidContent = errors.New("invalid content")
)

// Parser parses Python modules. Each Parse call uses its own tree-sitter
// parser, so a Parser may be shared.
type Parser struct {
	maxFileSize int64
}

// NewParser creates a Parser with DefaultMaxFileSize.
func NewParser() *Parser {
	return &Parser{maxFileSize: DefaultMaxFileSize}
}

// Parse extracts the module-scope members of content. filePath is only used in
// error messages.
func (p *Parser) Parse(ctx context.Context, content []byte, filePath string) (*Module, error) {
	if int64(len(content)) > p.maxFileSize {
		return nil, fmt.Errorf("%s: %w: size %d exceeds limit %d", filePath, ErrFileTooLarge, len(content), p.maxFileSize)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%s: %w: content is not valid UTF-8", filePath, ErrInvalidContent)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("parsing %s: tree-sitter returned no root node", filePath)
	}

	mod := &Module{SyntaxErrors: root.HasError()}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		switch stmt.Type() {
		case "import_statement":
			collectImport(stmt, content, mod)
		case "import_from_statement":
			collectImportFrom(stmt, content, mod)
		case "function_definition", "class_definition":
			collectDefinition(stmt, nil, content, mod)
		case "decorated_definition":
			def := stmt.ChildByFieldName("definition")
			if def == nil {
				continue
			}
			collectDefinition(def, collectDecorators(stmt, content), content, mod)
		case "expression_statement":
			collectAssignment(stmt, content, mod)
		}
	}

	return mod, nil
}

// collectImport handles "import a.b" and "import a.b as c".
func collectImport(node *sitter.Node, content []byte, mod *Module) {
	line := lineOf(node)
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			path := dotted(child, content)
			// "import a.b" binds "a", which refers to the top-level package.
			first, _, _ := strings.Cut(path, ".")
			mod.Members = append(mod.Members, Member{
				Kind:   MemberImport,
				Name:   first,
				Line:   line,
				Import: &Import{Path: first},
			})
		case "aliased_import":
			name := child.ChildByFieldName("name")
			alias := child.ChildByFieldName("alias")
			if name == nil || alias == nil {
				continue
			}
			mod.Members = append(mod.Members, Member{
				Kind:   MemberImport,
				Name:   alias.Content(content),
				Line:   line,
				Import: &Import{Path: dotted(name, content)},
			})
		}
	}
}

// collectImportFrom handles "from x import y", "from x import y as z" and the
// relative forms "from . import y", "from ..x import y".
func collectImportFrom(node *sitter.Node, content []byte, mod *Module) {
	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode == nil {
		return
	}

	var level int
	var from string
	switch moduleNode.Type() {
	case "relative_import":
		for i := 0; i < int(moduleNode.NamedChildCount()); i++ {
			part := moduleNode.NamedChild(i)
			switch part.Type() {
			case "import_prefix":
				level = strings.Count(part.Content(content), ".")
			case "dotted_name":
				from = dotted(part, content)
			}
		}
	default:
		from = dotted(moduleNode, content)
	}

	join := func(name string) string {
		if from == "" {
			return name
		}
		return from + "." + name
	}

	line := lineOf(node)
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.StartByte() <= moduleNode.StartByte() {
			continue
		}
		switch child.Type() {
		case "dotted_name":
			name := dotted(child, content)
			mod.Members = append(mod.Members, Member{
				Kind:   MemberImport,
				Name:   name,
				Line:   line,
				Import: &Import{Level: level, Path: join(name)},
			})
		case "aliased_import":
			name := child.ChildByFieldName("name")
			alias := child.ChildByFieldName("alias")
			if name == nil || alias == nil {
				continue
			}
			mod.Members = append(mod.Members, Member{
				Kind:   MemberImport,
				Name:   alias.Content(content),
				Line:   line,
				Import: &Import{Level: level, Path: join(dotted(name, content))},
			})
		}
	}
}

func collectDefinition(node *sitter.Node, decorators []Decorator, content []byte, mod *Module) {
	name := node.ChildByFieldName("name")
	if name == nil {
		return
	}
	kind := MemberFunction
	if node.Type() == "class_definition" {
		kind = MemberClass
	} else if node.Type() != "function_definition" {
		return
	}
	mod.Members = append(mod.Members, Member{
		Kind:       kind,
		Name:       name.Content(content),
		Line:       lineOf(node),
		Decorators: decorators,
	})
}

// collectAssignment records "name = ..." at module scope. When the right-hand
// side is a dotted name it is kept as Ref so that re-exports like
// "public = apigen.public" can be followed.
func collectAssignment(stmt *sitter.Node, content []byte, mod *Module) {
	if stmt.NamedChildCount() == 0 {
		return
	}
	assign := stmt.NamedChild(0)
	if assign.Type() != "assignment" {
		return
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return
	}
	m := Member{Kind: MemberAssign, Name: left.Content(content), Line: lineOf(assign)}
	if right := assign.ChildByFieldName("right"); right != nil && isDottedName(right) {
		m.Ref = dotted(right, content)
	}
	mod.Members = append(mod.Members, m)
}

func collectDecorators(node *sitter.Node, content []byte) []Decorator {
	var decorators []Decorator
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "decorator" {
			continue
		}
		expr := firstNamed(child)
		if expr == nil {
			continue
		}
		d := Decorator{Line: lineOf(child)}
		switch {
		case isDottedName(expr):
			d.Callee = dotted(expr, content)
		case expr.Type() == "call":
			d.Call = true
			if fn := expr.ChildByFieldName("function"); fn != nil && isDottedName(fn) {
				d.Callee = dotted(fn, content)
			}
			if args := expr.ChildByFieldName("arguments"); args != nil && args.Type() == "argument_list" {
				collectArguments(args, content, &d)
			}
		}
		decorators = append(decorators, d)
	}
	return decorators
}

func collectArguments(args *sitter.Node, content []byte, d *Decorator) {
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		switch arg.Type() {
		case "comment":
		case "keyword_argument":
			name := arg.ChildByFieldName("name")
			value := arg.ChildByFieldName("value")
			if name == nil || value == nil {
				continue
			}
			d.Keywords = append(d.Keywords, Keyword{Name: name.Content(content), Value: evaluate(value, content)})
		default:
			d.Args = append(d.Args, evaluate(arg, content))
		}
	}
}

// evaluate returns the literal value of node, or a ValueOther when the
// expression is not a plain literal.
func evaluate(node *sitter.Node, content []byte) Value {
	text := node.Content(content)
	other := Value{Kind: ValueOther, Text: text}

	switch node.Type() {
	case "string":
		s, ok := stringLiteral(node, content)
		if !ok {
			return other
		}
		return Value{Kind: ValueString, Str: s, Text: text}
	case "concatenated_string":
		var b strings.Builder
		for i := 0; i < int(node.NamedChildCount()); i++ {
			part := node.NamedChild(i)
			if part.Type() == "comment" {
				continue
			}
			s, ok := stringLiteral(part, content)
			if !ok {
				return other
			}
			b.WriteString(s)
		}
		return Value{Kind: ValueString, Str: b.String(), Text: text}
	case "integer", "unary_operator":
		digits := strings.NewReplacer("_", "", " ", "", "\t", "").Replace(text)
		n, err := strconv.ParseInt(digits, 0, 64)
		if err != nil {
			return other
		}
		return Value{Kind: ValueInt, Int: int(n), Text: text}
	case "true", "false":
		return Value{Kind: ValueBool, Bool: node.Type() == "true", Text: text}
	case "none":
		return Value{Kind: ValueNone, Text: text}
	case "parenthesized_expression":
		if inner := firstNamed(node); inner != nil {
			return evaluate(inner, content)
		}
	}
	return other
}

func stringLiteral(node *sitter.Node, content []byte) (string, bool) {
	if node.Type() != "string" {
		return "", false
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if node.NamedChild(i).Type() == "interpolation" {
			return "", false
		}
	}
	return UnquoteString(node.Content(content))
}

// isDottedName reports whether node is an identifier or a chain of attribute
// accesses on identifiers.
func isDottedName(node *sitter.Node) bool {
	switch node.Type() {
	case "identifier", "dotted_name":
		return true
	case "attribute":
		obj := node.ChildByFieldName("object")
		return obj != nil && isDottedName(obj)
	}
	return false
}

func dotted(node *sitter.Node, content []byte) string {
	return strings.Join(strings.Fields(node.Content(content)), "")
}

func firstNamed(node *sitter.Node) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "comment" {
			return child
		}
	}
	return nil
}

func lineOf(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}
