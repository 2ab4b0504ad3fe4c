package sandbox

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/google/uuid"
)

const execInspectInterval = 50 * time.Millisecond

// DockerRuntime implements ContainerRuntime against the Docker Engine API.
type DockerRuntime struct {
	client *client.Client
}

// NewDockerRuntime creates a Docker-backed runtime from the environment
// (DOCKER_HOST etc.), negotiating the API version with the daemon.
func NewDockerRuntime() (*DockerRuntime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}
	return &DockerRuntime{client: cli}, nil
}

func (r *DockerRuntime) Ping(ctx context.Context) error {
	_, err := r.client.Ping(ctx)
	return err
}

// PullImage fetches the image if it is not already in the local cache.
func (r *DockerRuntime) PullImage(ctx context.Context, imageName string) error {
	if _, _, err := r.client.ImageInspectWithRaw(ctx, imageName); err == nil {
		return nil
	}

	reader, err := r.client.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image: %w", err)
	}
	defer reader.Close()

	// Drain the pull output (required for pull to complete)
	_, _ = io.Copy(io.Discard, reader)

	return nil
}

// CreateContainer creates and starts a detached, hardened container. Errors
// are returned as classified LaunchErrors.
func (r *DockerRuntime) CreateContainer(ctx context.Context, spec ContainerSpec) (string, error) {
	containerConfig := &container.Config{
		Image:           spec.Image,
		Cmd:             spec.KeepAlive,
		User:            spec.User,
		NetworkDisabled: !spec.NetworkAccess,
	}

	hostConfig := &container.HostConfig{
		Resources: container.Resources{
			Memory:   spec.Memory,
			NanoCPUs: int64(spec.CPU * 1e9),
		},
		SecurityOpt: []string{"no-new-privileges"},
		CapDrop:     []string{"ALL"},
		AutoRemove:  true,
	}

	name := "crucible-" + uuid.NewString()[:8]
	createResp, err := r.client.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, name)
	if err != nil {
		return "", classifyLaunchError(err)
	}

	if err := r.client.ContainerStart(ctx, createResp.ID, container.StartOptions{}); err != nil {
		// Best-effort reclaim of the never-started container.
		removeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = r.client.ContainerRemove(removeCtx, createResp.ID, container.RemoveOptions{Force: true})
		return "", classifyLaunchError(err)
	}

	return createResp.ID, nil
}

func classifyLaunchError(err error) error {
	if client.IsErrConnectionFailed(err) {
		return &LaunchError{Kind: LaunchDaemonUnreachable, Err: err}
	}
	return &LaunchError{Kind: LaunchRejected, Err: err}
}

// UploadArchive extracts the tar archive at the container's filesystem root.
func (r *DockerRuntime) UploadArchive(ctx context.Context, containerID string, archive io.Reader) error {
	return r.client.CopyToContainer(ctx, containerID, "/", archive, container.CopyToContainerOptions{})
}

// Exec runs a command and captures stdout and stderr as two separate streams
// using the Docker multiplexed stream format.
func (r *DockerRuntime) Exec(ctx context.Context, containerID string, cmd []string) (ExecOutput, error) {
	execResp, err := r.client.ContainerExecCreate(ctx, containerID, container.ExecOptions{
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return ExecOutput{}, fmt.Errorf("exec create failed: %w", err)
	}

	attach, err := r.client.ContainerExecAttach(ctx, execResp.ID, container.ExecStartOptions{})
	if err != nil {
		return ExecOutput{}, fmt.Errorf("exec attach failed: %w", err)
	}
	defer attach.Close()

	// Force-close the hijacked connection when the context expires so
	// stdcopy.StdCopy cannot block on a hung command.
	go func() {
		<-ctx.Done()
		attach.Close()
	}()

	var stdout, stderr limitedBuffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, attach.Reader); err != nil && err != io.EOF {
		if ctx.Err() != nil {
			return ExecOutput{}, ctx.Err()
		}
		return ExecOutput{}, fmt.Errorf("exec output read failed: %w", err)
	}

	exitCode, err := r.waitExecDone(ctx, execResp.ID)
	if err != nil {
		return ExecOutput{}, err
	}

	return ExecOutput{
		ExitCode: exitCode,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}, nil
}

// waitExecDone polls until the exec has a final exit code.
func (r *DockerRuntime) waitExecDone(ctx context.Context, execID string) (int, error) {
	for {
		inspect, err := r.client.ContainerExecInspect(ctx, execID)
		if err != nil {
			return 0, fmt.Errorf("exec inspect failed: %w", err)
		}
		if !inspect.Running {
			return inspect.ExitCode, nil
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(execInspectInterval):
		}
	}
}

// StopContainer stops the container with the given grace period. The
// container was created with auto-remove, so stopping reclaims it.
func (r *DockerRuntime) StopContainer(ctx context.Context, containerID string, grace time.Duration) error {
	seconds := int(grace.Seconds())
	return r.client.ContainerStop(ctx, containerID, container.StopOptions{Timeout: &seconds})
}
