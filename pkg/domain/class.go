package domain

import (
	"strings"
)

// ClassName is a fully-qualified class name. Nested classes are joined with
// '$' (e.g. "com.acme.OuterTest$Inner").
type ClassName string

// SimpleName returns the last segment of the name.
func (n ClassName) SimpleName() string {
	s := string(n)
	if idx := strings.LastIndexAny(s, ".$"); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

// Package returns the package part of the name, empty for the default package.
func (n ClassName) Package() string {
	s := string(n)
	if idx := strings.Index(s, "$"); idx >= 0 {
		s = s[:idx]
	}
	if idx := strings.LastIndex(s, "."); idx >= 0 {
		return s[:idx]
	}
	return ""
}

// Path returns the name in slash-separated form ("com/acme/LoginTest") so it
// can be matched with path globs.
func (n ClassName) Path() string {
	return strings.ReplaceAll(string(n), ".", "/")
}

// ClassKind distinguishes class declarations from interfaces.
type ClassKind string

const (
	KindClass     ClassKind = "class"
	KindInterface ClassKind = "interface"
)

// Class is a parsed class or interface declaration.
type Class struct {
	Annotations []Annotation `json:"annotations,omitempty"`
	Abstract    bool         `json:"abstract,omitempty"`
	// Enclosing is the outer class for nested declarations.
	Enclosing ClassName `json:"enclosing,omitempty"`
	// Imports holds single-type and wildcard ("com.acme.*") imports of the file.
	Imports    []string  `json:"imports,omitempty"`
	Interfaces []string  `json:"interfaces,omitempty"`
	Kind       ClassKind `json:"kind"`
	Location   Location  `json:"location"`
	Methods    []Method  `json:"methods,omitempty"`
	Name       ClassName `json:"name"`
	Package    string    `json:"package,omitempty"`
	// Superclass is the raw supertype name as written in source.
	Superclass string `json:"superclass,omitempty"`
}

// Annotation returns the first annotation with the given simple name.
func (c *Class) Annotation(name string) (Annotation, bool) {
	return findAnnotation(c.Annotations, name)
}

// Method is a method declared on a class.
type Method struct {
	Annotations []Annotation `json:"annotations,omitempty"`
	Class       ClassName    `json:"class"`
	Location    Location     `json:"location"`
	Name        string       `json:"name"`
	Parameters  []string     `json:"parameters,omitempty"`
	Public      bool         `json:"public,omitempty"`
	Static      bool         `json:"static,omitempty"`
}

// Signature returns name and parameter types, e.g. "login(String,int)".
func (m Method) Signature() string {
	return m.Name + "(" + strings.Join(m.Parameters, ",") + ")"
}

// SameSignature reports whether o overrides or is overridden by m.
func (m Method) SameSignature(o Method) bool {
	return m.Signature() == o.Signature()
}

// String returns "SimpleClass.signature".
func (m Method) String() string {
	return m.Class.SimpleName() + "." + m.Signature()
}

// Annotation returns the first annotation with the given simple name.
func (m Method) Annotation(name string) (Annotation, bool) {
	return findAnnotation(m.Annotations, name)
}

// HasAnnotation reports whether the method carries the named annotation.
func (m Method) HasAnnotation(name string) bool {
	_, ok := m.Annotation(name)
	return ok
}

// Annotation is a parsed annotation with its simple name and arguments.
// Arguments are keyed by element name; a single unnamed argument is stored
// under "value". Array values are flattened and string quotes are removed.
type Annotation struct {
	Arguments map[string][]string `json:"arguments,omitempty"`
	Name      string              `json:"name"`
}

// Argument returns the first value of the named argument.
func (a Annotation) Argument(key string) (string, bool) {
	values, ok := a.Arguments[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func findAnnotation(annotations []Annotation, name string) (Annotation, bool) {
	for _, a := range annotations {
		if a.Name == name {
			return a, true
		}
	}
	return Annotation{}, false
}
