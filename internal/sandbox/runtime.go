package sandbox

import (
	"context"
	"io"
	"time"
)

// ContainerSpec describes the environment a launcher asks the runtime to
// create. The container is created detached, started immediately, and kept
// alive by KeepAlive so subsequent exec calls can be issued against it.
type ContainerSpec struct {
	Image         string
	User          string // empty = image default
	KeepAlive     []string
	Memory        int64   // bytes
	CPU           float64 // cores
	NetworkAccess bool
}

// ExecOutput carries the demultiplexed result of one command: stdout and
// stderr are captured as two distinct byte streams, never merged.
type ExecOutput struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// ContainerRuntime is the contract the engine consumes from the container
// runtime service. The engine owns exactly one implementation; tests supply
// fakes.
type ContainerRuntime interface {
	// Ping verifies the runtime service is reachable.
	Ping(ctx context.Context) error

	// PullImage fetches an image into the local cache.
	PullImage(ctx context.Context, image string) error

	// CreateContainer creates and starts a detached container from the given
	// spec, with all capabilities dropped, privilege escalation disabled,
	// and auto-reclamation on stop. Returns the container handle.
	CreateContainer(ctx context.Context, spec ContainerSpec) (string, error)

	// UploadArchive extracts a tar archive at the container's filesystem root.
	UploadArchive(ctx context.Context, containerID string, archive io.Reader) error

	// Exec runs a command in the container and returns its demultiplexed
	// output once it finishes.
	Exec(ctx context.Context, containerID string, cmd []string) (ExecOutput, error)

	// StopContainer stops the container, waiting up to grace before killing
	// it. Best-effort.
	StopContainer(ctx context.Context, containerID string, grace time.Duration) error
}
