// Package sandbox executes untrusted commands inside ephemeral, isolated
// containers. Each request gets its own container with all capabilities
// dropped, privilege escalation disabled, memory and CPU caps applied, and
// network access off unless explicitly enabled. Commands run strictly in
// order with a wall-clock budget and stop at the first failure; the container
// is stopped and reclaimed on every exit path.
package sandbox

// Request describes one isolated execution: the image to run in, the files to
// inject, the commands to execute, and the resource/time/output policy.
// Requests are built via Config.NewRequest and not mutated afterwards.
type Request struct {
	Image  string
	Family ImageFamily

	// Files maps in-container paths to text content. They are packed into a
	// single tar archive and uploaded before any command runs.
	Files map[string]string

	// Commands are executed sequentially through "sh -c". The pipeline stops
	// at the first nonzero exit status or exec failure.
	Commands []string

	Memory         int64   // memory ceiling in bytes
	CPU            float64 // CPU share in cores (e.g. 0.5 = half a core)
	Timeout        int     // overall wall-clock budget in seconds
	CommandTimeout int     // per-command ceiling in seconds
	NetworkAccess  bool
	MaxOutputSize  int    // serialized report ceiling in bytes
	OutputEncoding string // IANA name of the encoding used to decode output
	NonRootUser    bool
}

// CommandOutcome is the per-command result recorded by the pipeline.
type CommandOutcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
}
