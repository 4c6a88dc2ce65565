package docker

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/moby/go-archive"
)

type (
	// Copy moves a directory tree between the host and a container. Copying works
	// against remote daemons too, where bind mounts would not.
	Copy struct {
		HostPath      string
		ContainerPath string
		// Exclude lists patterns relative to HostPath that are not copied in.
		Exclude []string
	}

	RunOptions struct {
		Image      string
		Entrypoint []string
		Cmd        []string
		Env        []string
		WorkDir    string
		User       string
		// CopyIn copies HostPath into the container as ContainerPath before start.
		CopyIn *Copy
		// CopyOut copies ContainerPath out after a successful exit, into the HostPath
		// directory (the tree keeps its base name).
		CopyOut *Copy
	}
)

// Run runs a container to completion and returns its standard output.
func (c *Client) Run(ctx context.Context, opts RunOptions) (string, error) {
	config := &container.Config{
		Image:      opts.Image,
		Entrypoint: opts.Entrypoint,
		Cmd:        opts.Cmd,
		Env:        opts.Env,
		WorkingDir: opts.WorkDir,
		User:       opts.User,
	}

	resp, err := c.cli.ContainerCreate(ctx, config, &container.HostConfig{}, nil, nil, "")
	if err != nil {
		return "", fmt.Errorf("failed to create container: %w", err)
	}

	containerID := resp.ID
	c.logger.With("container_id", containerID).With("image", opts.Image).Debug("container created")

	defer func() {
		if err := c.cli.ContainerRemove(context.WithoutCancel(ctx), containerID, container.RemoveOptions{Force: true}); err != nil {
			c.logger.With("container_id", containerID).With("err", err.Error()).Warn("failed to remove container")
		}
	}()

	if opts.CopyIn != nil {
		if err := c.copyIn(ctx, containerID, *opts.CopyIn); err != nil {
			return "", err
		}
	}

	if err := c.cli.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		return "", fmt.Errorf("failed to start container: %w", err)
	}

	statusCh, errCh := c.cli.ContainerWait(ctx, containerID, container.WaitConditionNotRunning)
	var exitCode int64
	select {
	case err := <-errCh:
		if err != nil {
			return "", fmt.Errorf("error waiting for container: %w", err)
		}
	case status := <-statusCh:
		exitCode = status.StatusCode
	}

	stdout, stderr, err := c.logs(ctx, containerID)
	if err != nil {
		return "", err
	}

	if exitCode != 0 {
		errorOutput := stdout + stderr
		if errorOutput != "" {
			return "", fmt.Errorf("container exited with code %d: %s", exitCode, errorOutput)
		}
		return "", fmt.Errorf("container exited with code %d", exitCode)
	}

	if opts.CopyOut != nil {
		if err := c.copyOut(ctx, containerID, *opts.CopyOut); err != nil {
			return "", err
		}
	}

	return stdout, nil
}

func (c *Client) logs(ctx context.Context, containerID string) (string, string, error) {
	rc, err := c.cli.ContainerLogs(ctx, containerID, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return "", "", fmt.Errorf("failed to read container logs: %w", err)
	}
	defer rc.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, rc); err != nil {
		return "", "", fmt.Errorf("failed to demultiplex container logs: %w", err)
	}

	return stdout.String(), stderr.String(), nil
}

func (c *Client) copyIn(ctx context.Context, containerID string, cp Copy) error {
	hostPath, err := filepath.Abs(cp.HostPath)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", cp.HostPath, err)
	}

	content, err := archive.TarWithOptions(filepath.Dir(hostPath), tarOptions(hostPath, cp))
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", hostPath, err)
	}
	defer content.Close()

	if err := c.cli.CopyToContainer(ctx, containerID, path.Dir(cp.ContainerPath), content, container.CopyToContainerOptions{}); err != nil {
		return fmt.Errorf("failed to copy %s into container: %w", hostPath, err)
	}

	c.logger.With("from", hostPath).With("to", cp.ContainerPath).Debug("copied into container")
	return nil
}

func (c *Client) copyOut(ctx context.Context, containerID string, cp Copy) error {
	content, _, err := c.cli.CopyFromContainer(ctx, containerID, cp.ContainerPath)
	if err != nil {
		return fmt.Errorf("failed to copy %s out of container: %w", cp.ContainerPath, err)
	}
	defer content.Close()

	if err := archive.Untar(content, cp.HostPath, &archive.TarOptions{NoLchown: true}); err != nil {
		return fmt.Errorf("failed to extract %s into %s: %w", cp.ContainerPath, cp.HostPath, err)
	}

	c.logger.With("from", cp.ContainerPath).With("to", cp.HostPath).Debug("copied out of container")
	return nil
}

// tarOptions archives hostPath from its parent directory, renaming its base name to the
// base name of the container path.
func tarOptions(hostPath string, cp Copy) *archive.TarOptions {
	base := filepath.Base(hostPath)

	excludes := make([]string, 0, len(cp.Exclude))
	for _, pattern := range cp.Exclude {
		excludes = append(excludes, filepath.Join(base, pattern))
	}

	return &archive.TarOptions{
		IncludeFiles:    []string{base},
		ExcludePatterns: excludes,
		RebaseNames:     map[string]string{base: path.Base(cp.ContainerPath)},
	}
}
