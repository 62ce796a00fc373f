package scanner

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// pythonStrategy is the one grammar-aware strategy: it parses Python with
// tree-sitter and extracts every import and from-import statement, at any
// nesting depth. Dotted module paths become slash-separated .py candidates.
// Tree-sitter is error-tolerant, so malformed sources still yield whatever
// imports parse cleanly.
type pythonStrategy struct{}

func newPythonStrategy() *pythonStrategy { return &pythonStrategy{} }

// Extract implements Strategy. A new parser is created per call; tree-sitter
// parser instances are not safe for concurrent reuse.
func (s *pythonStrategy) Extract(content []byte) []string {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil || tree == nil {
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil
	}

	var imports []string
	var visit func(node *sitter.Node)
	visit = func(node *sitter.Node) {
		switch node.Type() {
		case "import_statement":
			// import foo.bar, import foo as f
			for i := 0; i < int(node.NamedChildCount()); i++ {
				child := node.NamedChild(i)
				switch child.Type() {
				case "dotted_name":
					imports = append(imports, moduleToPath(child.Content(content)))
				case "aliased_import":
					if name := firstChildOfType(child, "dotted_name"); name != nil {
						imports = append(imports, moduleToPath(name.Content(content)))
					}
				}
			}
		case "import_from_statement":
			// Only the module path of "from foo.bar import x" matters for
			// the graph. "from . import x" carries no module and is skipped.
			if module := node.ChildByFieldName("module_name"); module != nil {
				switch module.Type() {
				case "dotted_name":
					imports = append(imports, moduleToPath(module.Content(content)))
				case "relative_import":
					if name := firstChildOfType(module, "dotted_name"); name != nil {
						imports = append(imports, moduleToPath(name.Content(content)))
					}
				}
			}
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			visit(node.NamedChild(i))
		}
	}
	visit(root)

	return imports
}

func firstChildOfType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); child.Type() == nodeType {
			return child
		}
	}
	return nil
}

func moduleToPath(module string) string {
	return strings.ReplaceAll(module, ".", "/") + ".py"
}
