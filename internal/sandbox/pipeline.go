package sandbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// runPipeline executes the request's commands strictly in order inside the
// container, enforcing the overall budget between commands and the
// per-command ceiling on each exec. The pipeline stops at the first nonzero
// exit status, exec failure, or exhausted budget; remaining commands are
// never attempted. Returns the per-command outcomes and the assembled log.
func (e *Engine) runPipeline(ctx context.Context, containerID string, req Request) ([]CommandOutcome, string) {
	enc, err := lookupEncoding(req.OutputEncoding)
	if err != nil {
		// Config validation guarantees a resolvable encoding; a request built
		// by hand may still carry a bad one.
		return nil, fmt.Sprintf("Error: %v", err)
	}

	deadline := time.Duration(req.Timeout) * time.Second
	perCommand := time.Duration(req.CommandTimeout) * time.Second
	start := time.Now()

	var outcomes []CommandOutcome
	var report []string

	for i, command := range req.Commands {
		elapsed := time.Since(start)
		if elapsed >= deadline {
			e.logger.Warn("overall timeout reached", slog.Int("commands_run", i))
			report = append(report, fmt.Sprintf("Operation timed out after %d seconds", req.Timeout))
			break
		}

		budget := perCommand
		if remaining := deadline - elapsed; remaining < budget {
			budget = remaining
		}
		if budget <= 0 {
			report = append(report, "Operation timed out")
			break
		}

		e.logger.Info("executing command", slog.String("command", command))

		execCtx, cancel := context.WithTimeout(ctx, budget)
		out, err := e.rt.Exec(execCtx, containerID, []string{"sh", "-c", command})
		cancel()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				e.logger.Warn("command exceeded its budget", slog.String("command", command))
				report = append(report, fmt.Sprintf("Operation timed out after %d seconds", req.Timeout))
			} else {
				e.logger.Error("error executing command",
					slog.String("command", command),
					slog.Any("error", err),
				)
				report = append(report, fmt.Sprintf("Error executing command: %v", err))
			}
			break
		}

		outcome := CommandOutcome{
			ExitCode: out.ExitCode,
			Stdout:   decodeOutput(enc, out.Stdout),
			Stderr:   decodeOutput(enc, out.Stderr),
		}
		outcomes = append(outcomes, outcome)

		if outcome.Stdout != "" {
			report = append(report, outcome.Stdout)
		}
		if outcome.Stderr != "" {
			report = append(report, "Error: "+outcome.Stderr)
		}

		if outcome.ExitCode != 0 {
			msg := classifyExit(outcome.ExitCode)
			e.logger.Warn("command failed",
				slog.String("command", command),
				slog.Int("exit_code", outcome.ExitCode),
				slog.String("reason", msg),
			)
			report = append(report, fmt.Sprintf("Command failed: %s (Exit code: %d)", msg, outcome.ExitCode))
			break
		}
	}

	return outcomes, strings.Join(report, "\n")
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
