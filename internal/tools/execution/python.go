// Package execution implements the sandboxed code-execution tools. Each tool
// packages caller-supplied source as files, builds a short command pipeline,
// and hands both to the sandbox engine. Tool functions keep a uniform string
// response contract: engine failures come back as descriptive text, never as
// faults.
package execution

import (
	"context"
	"fmt"
	"strings"

	"github.com/ChamsBouzaiene/crucible/internal/sandbox"
	"github.com/ChamsBouzaiene/crucible/internal/tools"
)

// Executor runs a prepared request in an isolated environment. Satisfied by
// *sandbox.Engine; narrowed to an interface so tests can mock it.
type Executor interface {
	Execute(ctx context.Context, req sandbox.Request) (string, error)
}

// NewExecutePythonTool creates the execute_python tool. The code runs as
// main.py inside the configured Python image; optional requirements are
// written to requirements.txt and installed first, which needs network
// access.
func NewExecutePythonTool(cfg sandbox.Config, exec Executor) tools.Tool {
	return tools.Tool{
		Name:        "execute_python",
		Description: "Execute Python code in a sandboxed Docker container. Optionally installs pip packages first (requires network access to be enabled).",
		SchemaJSON: `{
			"type": "object",
			"properties": {
				"code": {"type":"string","description":"Python source to run as the program entry point"},
				"requirements": {"type":"array","items":{"type":"string"},"description":"pip package names to install before running"}
			},
			"required": ["code"]
		}`,
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			code, ok := args["code"].(string)
			if !ok {
				return "", fmt.Errorf("code must be a string")
			}
			requirements := stringSliceArg(args["requirements"])

			if len(requirements) > 0 && !cfg.NetworkAccess {
				return "Error: Cannot install requirements without network access", nil
			}

			files := map[string]string{"main.py": code}
			var commands []string
			if len(requirements) > 0 {
				files["requirements.txt"] = strings.Join(requirements, "\n")
				commands = append(commands, "pip install --no-cache-dir -r requirements.txt")
			}
			commands = append(commands, "python main.py")

			req := cfg.NewRequest(cfg.PythonImage, sandbox.FamilyInterpreter, files, commands)
			return runRequest(ctx, exec, req)
		},
	}
}

// runRequest executes the request and folds engine errors into the report
// text so the dispatch layer always receives a string result.
func runRequest(ctx context.Context, exec Executor, req sandbox.Request) (string, error) {
	report, err := exec.Execute(ctx, req)
	if err != nil {
		return err.Error(), nil
	}
	return report, nil
}

func stringSliceArg(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
