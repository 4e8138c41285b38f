/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: process.go
Description: Membership oracle that runs an external program per query. The word is
written to the program's stdin followed by a newline; exit status 0 means member,
any other exit status means non-member. Start failures, signals and timeouts make the
oracle unavailable for that query.
*/

package oracle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/kleascm/automator/pkg/lstar"
	"github.com/sirupsen/logrus"
)

// DefaultProcessTimeout bounds one program run when no timeout is configured
const DefaultProcessTimeout = 5 * time.Second

// Process answers membership queries by executing a program
type Process struct {
	Path    string
	Args    []string
	Timeout time.Duration
	// Env is appended to the current environment
	Env    []string
	Logger logrus.FieldLogger
}

// NewProcess creates a process oracle for path with the default timeout
func NewProcess(path string, args ...string) *Process {
	return &Process{
		Path:    path,
		Args:    args,
		Timeout: DefaultProcessTimeout,
	}
}

// Ask runs the program with word on stdin and maps its exit status to membership
func (p *Process) Ask(ctx context.Context, word lstar.Word) (bool, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultProcessTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, p.Path, p.Args...)
	cmd.Stdin = strings.NewReader(string(word) + "\n")
	cmd.Env = append(os.Environ(), "AUTOMATOR_WORD="+string(word))
	cmd.Env = append(cmd.Env, p.Env...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	// Children of a killed program may keep stderr open
	cmd.WaitDelay = 100 * time.Millisecond

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	// A cancelled session is not an unavailable oracle
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return false, fmt.Errorf("%w: %s timed out after %v", lstar.ErrOracleUnavailable, p.Path, timeout)
	}

	if err == nil {
		p.trace(word, true, duration)
		return true, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false, fmt.Errorf("%w: failed to start %s: %v", lstar.ErrOracleUnavailable, p.Path, err)
	}
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return false, fmt.Errorf("%w: %s killed by %v: %s", lstar.ErrOracleUnavailable, p.Path, status.Signal(), strings.TrimSpace(stderr.String()))
	}

	p.trace(word, false, duration)
	return false, nil
}

func (p *Process) trace(word lstar.Word, member bool, duration time.Duration) {
	if p.Logger == nil {
		return
	}
	p.Logger.WithFields(logrus.Fields{
		"word":     word.String(),
		"member":   member,
		"duration": duration,
		"program":  p.Path,
	}).Debug("Target program exited")
}
