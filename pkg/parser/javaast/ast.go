// Package javaast provides Java AST traversal utilities for class discovery.
package javaast

import (
	"bytes"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/testplan/pkg/domain"
	"github.com/specvital/testplan/pkg/parser/tspool"
)

// Java AST node types.
const (
	NodeClassDeclaration       = "class_declaration"
	NodeInterfaceDeclaration   = "interface_declaration"
	NodeMethodDeclaration      = "method_declaration"
	NodeAnnotation             = "annotation"
	NodeMarkerAnnotation       = "marker_annotation"
	NodeModifiers              = "modifiers"
	NodeIdentifier             = "identifier"
	NodeScopedIdentifier       = "scoped_identifier"
	NodeFormalParameters       = "formal_parameters"
	NodeFormalParameter        = "formal_parameter"
	NodeSpreadParameter        = "spread_parameter"
	NodeClassBody              = "class_body"
	NodeInterfaceBody          = "interface_body"
	NodeAnnotationArgumentList = "annotation_argument_list"
	NodeElementValuePair       = "element_value_pair"
	NodeElementArray           = "element_value_array_initializer"
	NodeStringLiteral          = "string_literal"
	NodeTypeList               = "type_list"
	NodeExtendsInterfaces      = "extends_interfaces"
	NodePackageDeclaration     = "package_declaration"
)

const importQuery = `(import_declaration) @import`

// GetAnnotations extracts all annotation nodes from a modifiers node.
func GetAnnotations(modifiers *sitter.Node) []*sitter.Node {
	if modifiers == nil {
		return nil
	}

	var annotations []*sitter.Node
	for i := 0; i < int(modifiers.ChildCount()); i++ {
		child := modifiers.Child(i)
		if child.Type() == NodeAnnotation || child.Type() == NodeMarkerAnnotation {
			annotations = append(annotations, child)
		}
	}
	return annotations
}

// GetAnnotationName extracts the simple annotation name (e.g., "Test" from @Test or @org.testng.annotations.Test).
func GetAnnotationName(annotation *sitter.Node, source []byte) string {
	if annotation == nil {
		return ""
	}

	for i := 0; i < int(annotation.ChildCount()); i++ {
		child := annotation.Child(i)
		if child.Type() == NodeIdentifier {
			return child.Content(source)
		}
		if child.Type() == NodeScopedIdentifier {
			return lastSegment(child.Content(source))
		}
	}
	return ""
}

// GetAnnotationArguments parses the argument list of an annotation.
// @Test(groups = {"a", "b"}, timeOut = 100) yields {"groups": [a b], "timeOut": [100]}.
// A single unnamed argument is stored under "value". Marker annotations yield nil.
func GetAnnotationArguments(annotation *sitter.Node, source []byte) map[string][]string {
	if annotation == nil {
		return nil
	}

	var args map[string][]string
	for i := 0; i < int(annotation.ChildCount()); i++ {
		list := annotation.Child(i)
		if list.Type() != NodeAnnotationArgumentList {
			continue
		}
		args = make(map[string][]string)
		for j := 0; j < int(list.NamedChildCount()); j++ {
			arg := list.NamedChild(j)
			if arg.Type() == NodeElementValuePair {
				key := arg.ChildByFieldName("key")
				value := arg.ChildByFieldName("value")
				if key == nil || value == nil {
					continue
				}
				args[key.Content(source)] = elementValues(value, source)
				continue
			}
			if arg.Type() == "comment" || arg.Type() == "block_comment" || arg.Type() == "line_comment" {
				continue
			}
			args["value"] = append(args["value"], elementValues(arg, source)...)
		}
	}
	return args
}

func elementValues(node *sitter.Node, source []byte) []string {
	switch node.Type() {
	case NodeElementArray:
		var values []string
		for i := 0; i < int(node.NamedChildCount()); i++ {
			values = append(values, elementValues(node.NamedChild(i), source)...)
		}
		return values
	case NodeStringLiteral:
		return []string{unquote(node.Content(source))}
	default:
		return []string{node.Content(source)}
	}
}

func unquote(text string) string {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		return text[1 : len(text)-1]
	}
	return text
}

// GetMethodName extracts the method name from a method_declaration node.
func GetMethodName(node *sitter.Node, source []byte) string {
	nameNode := node.ChildByFieldName("name")
	if nameNode != nil {
		return nameNode.Content(source)
	}
	return ""
}

// GetParameterTypes returns the declared parameter types of a method with
// generic arguments removed, e.g. (List<String> a, int... b) -> [List int...].
func GetParameterTypes(node *sitter.Node, source []byte) []string {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}

	var types []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		param := params.NamedChild(i)
		switch param.Type() {
		case NodeFormalParameter:
			if typeNode := param.ChildByFieldName("type"); typeNode != nil {
				types = append(types, TypeName(typeNode.Content(source)))
			}
		case NodeSpreadParameter:
			for j := 0; j < int(param.NamedChildCount()); j++ {
				child := param.NamedChild(j)
				if child.Type() != NodeModifiers && child.Type() != "variable_declarator" {
					types = append(types, TypeName(child.Content(source))+"...")
					break
				}
			}
		}
	}
	return types
}

// GetClassName extracts the class name from a class or interface declaration.
func GetClassName(node *sitter.Node, source []byte) string {
	nameNode := node.ChildByFieldName("name")
	if nameNode != nil {
		return nameNode.Content(source)
	}
	return ""
}

// GetClassBody returns the body node of a class or interface declaration.
func GetClassBody(node *sitter.Node) *sitter.Node {
	return node.ChildByFieldName("body")
}

// GetSuperclass returns the raw superclass name of a class declaration
// without type arguments, or empty when there is no extends clause.
func GetSuperclass(node *sitter.Node, source []byte) string {
	superclass := node.ChildByFieldName("superclass")
	if superclass == nil {
		return ""
	}
	if superclass.NamedChildCount() == 0 {
		return ""
	}
	return TypeName(superclass.NamedChild(0).Content(source))
}

// GetInterfaces returns the raw names of implemented (class) or extended
// (interface) interfaces.
func GetInterfaces(node *sitter.Node, source []byte) []string {
	var holder *sitter.Node
	if node.Type() == NodeInterfaceDeclaration {
		for i := 0; i < int(node.ChildCount()); i++ {
			if child := node.Child(i); child.Type() == NodeExtendsInterfaces {
				holder = child
				break
			}
		}
	} else {
		holder = node.ChildByFieldName("interfaces")
	}
	if holder == nil {
		return nil
	}

	var names []string
	for i := 0; i < int(holder.NamedChildCount()); i++ {
		list := holder.NamedChild(i)
		if list.Type() != NodeTypeList {
			continue
		}
		for j := 0; j < int(list.NamedChildCount()); j++ {
			names = append(names, TypeName(list.NamedChild(j).Content(source)))
		}
	}
	return names
}

// GetModifiers returns the modifiers node from a method or class declaration.
func GetModifiers(node *sitter.Node) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == NodeModifiers {
			return child
		}
	}
	return nil
}

// HasModifier checks for a keyword modifier such as "public" or "static".
func HasModifier(modifiers *sitter.Node, keyword string) bool {
	if modifiers == nil {
		return false
	}

	for i := 0; i < int(modifiers.ChildCount()); i++ {
		if modifiers.Child(i).Type() == keyword {
			return true
		}
	}
	return false
}

// GetPackageName returns the package declared in a compilation unit.
func GetPackageName(root *sitter.Node, source []byte) string {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != NodePackageDeclaration {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			name := child.NamedChild(j)
			if name.Type() == NodeScopedIdentifier || name.Type() == NodeIdentifier {
				return name.Content(source)
			}
		}
	}
	return ""
}

// GetImports returns the non-static imports of a compilation unit. Wildcard
// imports keep their ".*" suffix.
func GetImports(root *sitter.Node, source []byte) ([]string, error) {
	results, err := tspool.QueryWithCache(root, domain.LanguageJava, importQuery)
	if err != nil {
		return nil, err
	}

	var imports []string
	for _, r := range results {
		text := strings.TrimSpace(r.Node.Content(source))
		text = strings.TrimPrefix(text, "import")
		text = strings.TrimSuffix(strings.TrimSpace(text), ";")
		text = strings.TrimSpace(text)
		if strings.HasPrefix(text, "static ") {
			continue
		}
		imports = append(imports, strings.Join(strings.Fields(text), ""))
	}
	return imports, nil
}

// TypeName strips type arguments and whitespace from a type reference:
// "Map<String, Integer>" -> "Map", "List<String> []" -> "List[]".
func TypeName(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "<"); idx >= 0 {
		suffix := ""
		if end := strings.LastIndex(text, ">"); end > idx {
			suffix = text[end+1:]
		}
		text = text[:idx] + suffix
	}
	return strings.Join(strings.Fields(text), "")
}

func lastSegment(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

// SanitizeSource removes NULL bytes from source code that would cause tree-sitter parsing failures.
func SanitizeSource(source []byte) []byte {
	if !bytes.Contains(source, []byte{0}) {
		return source
	}
	return bytes.ReplaceAll(source, []byte{0}, []byte{' '})
}
