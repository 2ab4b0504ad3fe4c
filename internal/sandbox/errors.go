package sandbox

import "fmt"

// ConnectivityError means the container runtime service could not be reached
// at engine construction. It is fatal: no engine is returned.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("Failed to connect to Docker daemon: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// LaunchKind classifies why an environment could not be created.
type LaunchKind string

const (
	// LaunchDaemonUnreachable means the runtime service dropped the
	// connection mid-request.
	LaunchDaemonUnreachable LaunchKind = "daemon unreachable"
	// LaunchRejected means the runtime service refused the creation request
	// (bad image, invalid policy, resource exhaustion).
	LaunchRejected LaunchKind = "api rejection"
)

// LaunchError is returned when the execution environment could not be
// created. No commands have run when this is reported.
type LaunchError struct {
	Kind LaunchKind
	Err  error
}

func (e *LaunchError) Error() string {
	if e.Kind == LaunchDaemonUnreachable {
		return fmt.Sprintf("Docker daemon unreachable: %v", e.Err)
	}
	return fmt.Sprintf("Docker API error: %v", e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// exitClassifications is the fixed status-code table for failed commands.
var exitClassifications = map[int]string{
	127: "Command not found",
	126: "Permission denied",
	124: "Command timed out",
}

// classifyExit maps a nonzero exit status to its fixed description.
func classifyExit(code int) string {
	if msg, ok := exitClassifications[code]; ok {
		return msg
	}
	return "Unknown error"
}
