// Package parser discovers Java class declarations with tree-sitter and
// scans source trees for them.
package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/testplan/pkg/domain"
	"github.com/specvital/testplan/pkg/parser/javaast"
	"github.com/specvital/testplan/pkg/parser/tspool"
)

// maxNestedDepth limits recursion depth for nested class parsing.
const maxNestedDepth = 20

// ParseJava extracts every class and interface declared in a Java compilation
// unit, including nested declarations, in source order.
func ParseJava(ctx context.Context, source []byte, filename string) ([]*domain.Class, error) {
	cleanSource := javaast.SanitizeSource(source)

	tree, err := tspool.Parse(ctx, domain.LanguageJava, cleanSource)
	if err != nil {
		return nil, fmt.Errorf("java parser: failed to parse %s: %w", filename, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	imports, err := javaast.GetImports(root, cleanSource)
	if err != nil {
		return nil, fmt.Errorf("java parser: imports of %s: %w", filename, err)
	}

	p := &fileParser{
		source:   cleanSource,
		filename: filename,
		pkg:      javaast.GetPackageName(root, cleanSource),
		imports:  imports,
	}

	WalkTree(root, func(node *sitter.Node) bool {
		if isTypeDeclaration(node) {
			p.parseClass(node, "", 0)
			return false // nested declarations are handled by parseClass
		}
		return true
	})

	return p.classes, nil
}

type fileParser struct {
	source   []byte
	filename string
	pkg      string
	imports  []string
	classes  []*domain.Class
}

func isTypeDeclaration(node *sitter.Node) bool {
	return node.Type() == javaast.NodeClassDeclaration || node.Type() == javaast.NodeInterfaceDeclaration
}

func (p *fileParser) parseClass(node *sitter.Node, enclosing domain.ClassName, depth int) {
	if depth > maxNestedDepth {
		return
	}

	simpleName := javaast.GetClassName(node, p.source)
	if simpleName == "" {
		return
	}

	var name domain.ClassName
	switch {
	case enclosing != "":
		name = enclosing + "$" + domain.ClassName(simpleName)
	case p.pkg != "":
		name = domain.ClassName(p.pkg + "." + simpleName)
	default:
		name = domain.ClassName(simpleName)
	}

	modifiers := javaast.GetModifiers(node)
	class := &domain.Class{
		Annotations: p.annotations(modifiers),
		Enclosing:   enclosing,
		Imports:     p.imports,
		Interfaces:  javaast.GetInterfaces(node, p.source),
		Kind:        domain.KindClass,
		Location:    GetLocation(node, p.filename),
		Name:        name,
		Package:     p.pkg,
	}
	if node.Type() == javaast.NodeInterfaceDeclaration {
		class.Kind = domain.KindInterface
	} else {
		class.Abstract = javaast.HasModifier(modifiers, "abstract")
		class.Superclass = javaast.GetSuperclass(node, p.source)
	}
	p.classes = append(p.classes, class)

	body := javaast.GetClassBody(node)
	if body == nil {
		return
	}

	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)

		switch {
		case child.Type() == javaast.NodeMethodDeclaration:
			if method := p.parseMethod(child, class); method != nil {
				class.Methods = append(class.Methods, *method)
			}
		case isTypeDeclaration(child):
			p.parseClass(child, name, depth+1)
		}
	}
}

func (p *fileParser) parseMethod(node *sitter.Node, class *domain.Class) *domain.Method {
	name := javaast.GetMethodName(node, p.source)
	if name == "" {
		return nil
	}

	modifiers := javaast.GetModifiers(node)
	public := javaast.HasModifier(modifiers, "public")
	if class.Kind == domain.KindInterface && !javaast.HasModifier(modifiers, "private") {
		public = true
	}

	return &domain.Method{
		Annotations: p.annotations(modifiers),
		Class:       class.Name,
		Location:    GetLocation(node, p.filename),
		Name:        name,
		Parameters:  javaast.GetParameterTypes(node, p.source),
		Public:      public,
		Static:      javaast.HasModifier(modifiers, "static"),
	}
}

func (p *fileParser) annotations(modifiers *sitter.Node) []domain.Annotation {
	nodes := javaast.GetAnnotations(modifiers)
	if len(nodes) == 0 {
		return nil
	}

	annotations := make([]domain.Annotation, 0, len(nodes))
	for _, node := range nodes {
		annotations = append(annotations, domain.Annotation{
			Name:      javaast.GetAnnotationName(node, p.source),
			Arguments: javaast.GetAnnotationArguments(node, p.source),
		})
	}
	return annotations
}
