package execution

import (
	"context"
	"fmt"

	"github.com/ChamsBouzaiene/crucible/internal/sandbox"
	"github.com/ChamsBouzaiene/crucible/internal/tools"
)

// NewExecuteBashTool creates the execute_bash tool. The commands are packaged
// as script.sh inside the configured Alpine image, made executable, and run.
func NewExecuteBashTool(cfg sandbox.Config, exec Executor) tools.Tool {
	return tools.Tool{
		Name:        "execute_bash",
		Description: "Execute shell commands in a sandboxed Docker container.",
		SchemaJSON: `{
			"type": "object",
			"properties": {
				"commands": {"type":"string","description":"Shell commands to run as a script"}
			},
			"required": ["commands"]
		}`,
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			commands, ok := args["commands"].(string)
			if !ok {
				return "", fmt.Errorf("commands must be a string")
			}

			files := map[string]string{"script.sh": commands}
			pipeline := []string{"chmod +x script.sh", "./script.sh"}

			req := cfg.NewRequest(cfg.AlpineImage, sandbox.FamilyBase, files, pipeline)
			return runRequest(ctx, exec, req)
		},
	}
}
