package readfiles

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var (
	ErrInputPath  = errors.New("invalid input path")
	ErrExtension  = errors.New("non-Exodus filetype provided as input")
	ErrInvocation = errors.New("dump utility unavailable")
)

// ExodusExt is the only extension accepted for binary mesh input
const ExodusExt = ".exo"

// DefaultNCDump is the netCDF utility that lists an Exodus II file as text
const DefaultNCDump = "ncdump"

// CheckExodusPath verifies the mesh file exists and carries the .exo extension
func CheckExodusPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInputPath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInputPath, path)
	}
	if ext := filepath.Ext(path); ext != ExodusExt {
		return fmt.Errorf("%w: %s has extension %q, want %q", ErrExtension, path, ext, ExodusExt)
	}
	return nil
}

// DumpPath is where a kept text dump of exoPath is written
func DumpPath(exoPath string) string {
	return strings.TrimSuffix(exoPath, filepath.Ext(exoPath)) + ".txt"
}

// Dumper produces the text listing of a binary Exodus II file
type Dumper interface {
	Dump(ctx context.Context, exoPath string) (io.ReadCloser, error)
}

// NCDump runs the netCDF ncdump utility and returns its output
type NCDump struct {
	Binary   string // Defaults to DefaultNCDump
	KeepDump bool   // Also write the listing to DumpPath(exoPath)
}

func (d NCDump) Dump(ctx context.Context, exoPath string) (io.ReadCloser, error) {
	bin := d.Binary
	if bin == "" {
		bin = DefaultNCDump
	}
	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("%w: %q not found, netCDF is required: %v", ErrInvocation, bin, err)
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, exoPath)
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s %s failed: %w: %s", bin, exoPath, err, strings.TrimSpace(stderr.String()))
	}
	if d.KeepDump {
		if err := os.WriteFile(DumpPath(exoPath), stdout.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("failed to keep dump: %w", err)
		}
	}
	return io.NopCloser(&stdout), nil
}

// OpenDump opens a text listing that was produced earlier
func OpenDump(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputPath, err)
	}
	return file, nil
}
