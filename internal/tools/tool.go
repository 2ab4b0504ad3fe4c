// Package tools defines the callable tool surface exposed to the dispatch
// layer and its argument validation.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ToolFunc executes a tool call. It always returns a string result: failures
// the caller should see are reported as descriptive text, not errors.
type ToolFunc func(ctx context.Context, args map[string]any) (string, error)

// Tool couples a name and JSON schema with its implementation.
type Tool struct {
	Name        string
	Description string
	SchemaJSON  string
	Fn          ToolFunc
}

// ValidateArgs validates the provided arguments against the tool's JSON schema.
func (t Tool) ValidateArgs(args map[string]any) error {
	schemaLoader := gojsonschema.NewStringLoader(t.SchemaJSON)
	documentLoader := gojsonschema.NewGoLoader(args)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		var errorMsgs []string
		for _, err := range result.Errors() {
			errorMsgs = append(errorMsgs, err.String())
		}
		return &ValidationError{
			ToolName: t.Name,
			Errors:   errorMsgs,
		}
	}

	return nil
}

// ValidationError indicates that tool arguments failed JSON schema validation.
type ValidationError struct {
	ToolName string
	Errors   []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("tool %s validation failed: %s", e.ToolName, strings.Join(e.Errors, "; "))
}

// Registry maps tool names to their definitions.
type Registry map[string]Tool

// Register adds a tool, replacing any existing tool with the same name.
func (r Registry) Register(t Tool) {
	r[t.Name] = t
}
