package sandbox

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

const (
	pingTimeout     = 5 * time.Second
	stopGrace       = 1 * time.Second
	teardownTimeout = 10 * time.Second
)

// Engine owns a container runtime client and executes requests against it.
// There is no process-wide state: callers construct one engine and pass it
// wherever executions are needed. Engines are safe for concurrent use; each
// request gets its own container.
type Engine struct {
	rt     ContainerRuntime
	cfg    Config
	logger *slog.Logger
}

// New validates the configuration and verifies the runtime service is
// reachable. A connectivity failure is fatal and aborts construction.
func New(cfg Config, rt ContainerRuntime, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sandbox config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rt.Ping(ctx); err != nil {
		return nil, &ConnectivityError{Err: err}
	}
	logger.Info("connected to container runtime")

	return &Engine{rt: rt, cfg: cfg, logger: logger}, nil
}

// Config returns the engine's validated configuration.
func (e *Engine) Config() Config { return e.cfg }

// Execute provisions an isolated container, injects the request's files, runs
// its commands, and returns the bounded report text. The container is stopped
// and reclaimed on every exit path. A non-nil error means the environment
// could not be prepared and no command ran; pipeline failures are reported
// inside the returned text.
func (e *Engine) Execute(ctx context.Context, req Request) (string, error) {
	user := ResolveUser(req.Family, req.NonRootUser)

	e.logger.Info("creating container",
		slog.String("image", req.Image),
		slog.Bool("network_access", req.NetworkAccess),
		slog.Int64("memory_bytes", req.Memory),
	)

	containerID, err := e.rt.CreateContainer(ctx, ContainerSpec{
		Image: req.Image,
		User:  user,
		// Idle keep-alive for the duration of the overall budget so exec
		// calls can be issued against the container.
		KeepAlive:     []string{"sleep", strconv.Itoa(req.Timeout)},
		Memory:        req.Memory,
		CPU:           req.CPU,
		NetworkAccess: req.NetworkAccess,
	})
	if err != nil {
		return "", err
	}
	defer e.teardown(containerID)

	archive, err := packArchive(req.Files)
	if err != nil {
		return "", fmt.Errorf("failed to package files: %w", err)
	}

	e.logger.Info("copying files to container",
		slog.Int("count", len(req.Files)),
		slog.String("container", shortID(containerID)),
	)
	if err := e.rt.UploadArchive(ctx, containerID, archive); err != nil {
		return "", fmt.Errorf("failed to upload files: %w", err)
	}

	_, report := e.runPipeline(ctx, containerID, req)
	return Bound(report, req.MaxOutputSize), nil
}

// teardown stops the container within a short grace period. Failures are
// logged and swallowed so they never mask the request's primary result.
func (e *Engine) teardown(containerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
	defer cancel()

	if err := e.rt.StopContainer(ctx, containerID, stopGrace); err != nil {
		e.logger.Warn("error while stopping container",
			slog.String("container", containerID),
			slog.Any("error", err),
		)
	}
}
