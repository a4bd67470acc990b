package subprocess

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/wagiedev/uci-session-go/internal/config"
	"github.com/wagiedev/uci-session-go/internal/discovery"
	"github.com/wagiedev/uci-session-go/internal/engines"
	"github.com/wagiedev/uci-session-go/internal/errors"
	"github.com/wagiedev/uci-session-go/internal/uci"
)

const (
	// maxScanTokenSize is the maximum length of a single engine output line.
	maxScanTokenSize = 1024 * 1024 // 1MB
	// maxStderrBufferSize caps the stderr kept for ProcessError. The Stderr
	// callback still receives every line.
	maxStderrBufferSize = 64 * 1024
	// inboundBufferSize is the capacity of the inbound channel.
	inboundBufferSize = 64
)

// ProcessChannel implements config.Channel over an engine child process.
type ProcessChannel struct {
	log     *slog.Logger
	options *config.Options
	engine  engines.Engine

	cmd   *exec.Cmd
	stdin io.WriteCloser

	inbound chan config.Inbound
	wake    chan struct{} // signals the writer that the queue changed
	exited  chan struct{} // closed after the process has been reaped
	stopped chan struct{} // closed by Close; readers stop delivering

	mu       sync.Mutex
	queue    []string
	started  bool
	closing  bool
	quitSent bool
	err      error

	stderrMu  sync.Mutex
	stderrBuf strings.Builder

	readers   sync.WaitGroup
	closeOnce sync.Once
}

var _ config.Channel = (*ProcessChannel)(nil)

// NewProcessChannel creates a channel for the engine selected by options.
//
// Binary discovery is deferred to Start, which searches in order:
//  1. options.EnginePath (if provided)
//  2. The system PATH, for each catalog binary name of options.Engine
//  3. Common installation directories
//
// Start returns an *errors.EngineNotFoundError if the binary cannot be located.
func NewProcessChannel(log *slog.Logger, options *config.Options) *ProcessChannel {
	return &ProcessChannel{
		log:     log.With("component", "engine_channel"),
		options: options,
		engine:  engines.Resolve(options.Engine),
		inbound: make(chan config.Inbound, inboundBufferSize),
		wake:    make(chan struct{}, 1),
		exited:  make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start discovers the engine binary and spawns the process.
//
// The context bounds discovery and startup only. The process lives until
// Close or until it exits on its own.
func (c *ProcessChannel) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closing:
		return errors.ErrChannelClosed
	case c.started:
		return &errors.ChannelError{Op: "start", Err: stderrors.New("already started")}
	}

	c.log.Info("Starting engine process", "engine", c.engine.ID)

	path, err := discovery.NewDiscoverer(&discovery.Config{
		EnginePath: c.options.EnginePath,
		Engine:     c.engine,
		Logger:     c.log,
	}).Discover(ctx)
	if err != nil {
		return fmt.Errorf("discover engine: %w", err)
	}

	spec := discovery.BuildCommand(path, c.options)
	c.log.Debug("Built engine command", "path", spec.Path, "args", spec.Args)

	//nolint:gosec // G204: launching a user-selected engine binary is the point
	cmd := exec.Command(spec.Path, spec.Args...)
	cmd.Env = spec.Env
	cmd.Dir = spec.Dir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return &errors.ChannelError{Op: "start", Err: fmt.Errorf("stdin pipe: %w", err)}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &errors.ChannelError{Op: "start", Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &errors.ChannelError{Op: "start", Err: fmt.Errorf("stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		c.log.Error("Failed to start engine process", "error", err)

		return &errors.ChannelError{Op: "start", Err: fmt.Errorf("start process: %w", err)}
	}

	c.cmd = cmd
	c.stdin = stdin
	c.started = true

	c.readers.Go(func() { c.readStdout(stdout) })
	c.readers.Go(func() { c.readStderr(stderr) })

	go c.writeLoop()
	go c.waitLoop()

	c.log.Info("Engine process started", "pid", cmd.Process.Pid, "path", spec.Path)

	return nil
}

// Inbound returns the channel of engine lines and log events. It is closed
// once the process has exited and every line has been delivered, or when
// Close is called on a channel that was never started.
func (c *ProcessChannel) Inbound() <-chan config.Inbound {
	return c.inbound
}

// Send queues one line for the engine. It never blocks on the process.
//
// Lines are written in the order Send is called. The line must not contain
// a line break; the terminator is added on write.
func (c *ProcessChannel) Send(line string) error {
	if strings.ContainsAny(line, "\r\n") {
		return &errors.ChannelError{Op: "send", Err: fmt.Errorf("line contains a line break: %q", line)}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closing:
		return errors.ErrChannelClosed
	case c.err != nil:
		return c.err
	case !c.started:
		return errors.ErrChannelNotStarted
	}

	c.queue = append(c.queue, line)
	c.quitSent = c.quitSent || line == uci.CmdQuit
	c.wakeWriter()

	c.log.Debug("Queued engine command", "line", line)

	return nil
}

// Err returns the error that terminated the channel, or nil when the channel
// is open or was closed on purpose.
func (c *ProcessChannel) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.err
}

// Close flushes queued lines, closes the engine's stdin and waits for the
// process to exit. If it is still running after the shutdown timeout it is
// killed. Close is safe to call more than once.
func (c *ProcessChannel) Close() error {
	var err error

	c.closeOnce.Do(func() {
		err = c.shutdown()
	})

	return err
}

func (c *ProcessChannel) shutdown() error {
	c.mu.Lock()
	c.closing = true
	started := c.started
	c.wakeWriter()
	c.mu.Unlock()

	close(c.stopped)

	if !started {
		close(c.inbound)

		return nil
	}

	timeout := config.ResolveDuration(c.options.ShutdownTimeout, config.DefaultShutdownTimeout)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-c.exited:
		c.log.Debug("Engine process exited")

		return nil
	case <-timer.C:
	}

	pid := c.cmd.Process.Pid
	c.log.Warn("Engine did not exit in time, killing it", "pid", pid, "timeout", timeout)

	if err := c.cmd.Process.Kill(); err != nil && !stderrors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill engine process (pid %d): %w", pid, err)
	}

	<-c.exited

	return nil
}

// wakeWriter must be called with c.mu held.
func (c *ProcessChannel) wakeWriter() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// setErr records the first terminal error.
func (c *ProcessChannel) setErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err == nil && !c.closing {
		c.err = err
	}
}

func (c *ProcessChannel) writeLoop() {
	defer func() {
		if err := c.stdin.Close(); err != nil {
			c.log.Debug("Closing engine stdin", "error", err)
		}
	}()

	for {
		c.mu.Lock()

		if len(c.queue) == 0 {
			done := c.closing || c.err != nil
			c.mu.Unlock()

			if done {
				return
			}

			select {
			case <-c.wake:
			case <-c.exited:
				return
			}

			continue
		}

		line := c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()

		if _, err := io.WriteString(c.stdin, line+"\n"); err != nil {
			c.log.Error("Failed to write to engine", "error", err)
			c.setErr(&errors.ChannelError{Op: "write", Err: err})

			return
		}
	}
}

func (c *ProcessChannel) deliver(in config.Inbound) bool {
	select {
	case c.inbound <- in:
		return true
	case <-c.stopped:
		return false
	}
}

func (c *ProcessChannel) readStdout(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxScanTokenSize)

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if !c.deliver(config.Inbound{Kind: config.EngineLine, Text: line}) {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		c.log.Error("Scanner error while reading engine output", "error", err)
		c.setErr(&errors.ChannelError{Op: "read", Err: err})

		// Nobody drains stdout any more; the process cannot make progress.
		_ = c.cmd.Process.Kill()
	}
}

func (c *ProcessChannel) readStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxScanTokenSize)

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")

		c.stderrMu.Lock()

		if c.stderrBuf.Len() < maxStderrBufferSize {
			if c.stderrBuf.Len() > 0 {
				c.stderrBuf.WriteString("\n")
			}

			c.stderrBuf.WriteString(line)
		}

		c.stderrMu.Unlock()

		if c.options.Stderr != nil {
			c.options.Stderr(line)
		}

		if !c.deliver(config.Inbound{Kind: config.LogEvent, Text: line}) {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		c.log.Debug("Stderr scanner error", "error", err)
	}
}

// waitLoop reaps the process once both pipes are drained, records how it
// ended and closes the inbound channel.
func (c *ProcessChannel) waitLoop() {
	defer close(c.inbound)
	defer close(c.exited)

	c.readers.Wait()

	waitErr := c.cmd.Wait()

	c.mu.Lock()
	closing := c.closing || (waitErr == nil && c.quitSent)
	c.mu.Unlock()

	if closing {
		c.log.Debug("Engine process terminated during shutdown")

		return
	}

	if waitErr != nil {
		exitCode := -1
		if exitErr, ok := stderrors.AsType[*exec.ExitError](waitErr); ok {
			exitCode = exitErr.ExitCode()
		}

		c.stderrMu.Lock()
		stderr := strings.TrimSpace(c.stderrBuf.String())
		c.stderrMu.Unlock()

		c.log.Error("Engine process exited with error", "exit_code", exitCode, "stderr", stderr)
		c.setErr(&errors.ProcessError{ExitCode: exitCode, Stderr: stderr, Err: waitErr})

		return
	}

	c.log.Warn("Engine process exited unexpectedly")
	c.setErr(&errors.ChannelError{Op: "read", Err: io.ErrUnexpectedEOF})
}
