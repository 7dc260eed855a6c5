// Package domain defines the core types for test class planning.
package domain

// Language represents a programming language.
type Language string

// Supported languages for test class parsing.
const (
	LanguageJava Language = "java"
)
