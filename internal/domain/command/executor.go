package command

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultLaunchTimeout = 30 * time.Second
	DefaultExecTimeout   = 30 * time.Second

	// DefaultWaitDelay bounds how long Wait keeps draining pipes that a
	// backgrounded grandchild still holds open after the shell has exited.
	DefaultWaitDelay = 2 * time.Second
)

// Config controls how the Executor launches processes.
type Config struct {
	Shell         string
	ShellArgs     []string
	LaunchTimeout time.Duration
	ExecTimeout   time.Duration
	WaitDelay     time.Duration
}

// DefaultConfig returns the platform shell with the default timeouts.
func DefaultConfig() Config {
	return Config{
		Shell:         defaultShell,
		ShellArgs:     []string{defaultShellFlag},
		LaunchTimeout: DefaultLaunchTimeout,
		ExecTimeout:   DefaultExecTimeout,
		WaitDelay:     DefaultWaitDelay,
	}
}

// Executor runs shell commands with a bounded launch phase and a bounded
// execution phase. It keeps no state between calls and is safe for
// concurrent use.
type Executor struct {
	cfg    Config
	logger zerolog.Logger

	// start is swapped in tests to simulate a slow launch.
	start func(*exec.Cmd) error
}

func NewExecutor(cfg Config, logger zerolog.Logger) *Executor {
	def := DefaultConfig()
	if cfg.Shell == "" {
		cfg.Shell = def.Shell
		if len(cfg.ShellArgs) == 0 {
			cfg.ShellArgs = def.ShellArgs
		}
	}
	if cfg.LaunchTimeout <= 0 {
		cfg.LaunchTimeout = def.LaunchTimeout
	}
	if cfg.ExecTimeout <= 0 {
		cfg.ExecTimeout = def.ExecTimeout
	}
	if cfg.WaitDelay <= 0 {
		cfg.WaitDelay = def.WaitDelay
	}
	return &Executor{
		cfg:    cfg,
		logger: logger.With().Str("component", "executor").Logger(),
		start:  (*exec.Cmd).Start,
	}
}

// Config returns the effective configuration after defaults were applied.
func (e *Executor) Config() Config { return e.cfg }

// Run executes req and always returns a CommandResult. Failures of any kind
// are reported inside the result with ReturnCode == FailureReturnCode.
func (e *Executor) Run(ctx context.Context, req CommandRequest) CommandResult {
	return Normalize(req, e.Execute(ctx, req))
}

// Execute runs req and returns the raw outcome. Every process it starts is
// killed and reaped before Execute returns, except when the launch phase
// times out while the OS call is still pending; that process is killed and
// reaped in the background as soon as the call completes.
func (e *Executor) Execute(ctx context.Context, req CommandRequest) Outcome {
	if req.Command == "" {
		return Outcome{Kind: OutcomeFailed, Phase: PhaseLaunch, Err: ErrEmptyCommand}
	}

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	cmd := exec.CommandContext(runCtx, e.cfg.Shell, append(append([]string{}, e.cfg.ShellArgs...), req.Command)...)
	cmd.Dir = req.WorkingDirectory
	cmd.WaitDelay = e.cfg.WaitDelay
	configureProcess(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if out, ok := e.launch(ctx, cancelRun, cmd); !ok {
		return out
	}
	e.logger.Debug().Int("pid", cmd.Process.Pid).Msg("process started")

	waited := make(chan error, 1)
	go func() { waited <- cmd.Wait() }()

	timer := time.NewTimer(e.cfg.ExecTimeout)
	defer timer.Stop()

	select {
	case err := <-waited:
		return e.exited(cmd, err, stdout.Bytes(), stderr.Bytes())
	case <-timer.C:
		cancelRun()
		<-waited
		e.logger.Warn().Str("phase", string(PhaseExec)).Dur("limit", e.cfg.ExecTimeout).Msg("command timed out")
		return Outcome{Kind: OutcomeTimedOut, Phase: PhaseExec, Limit: e.cfg.ExecTimeout}
	case <-ctx.Done():
		// runCtx is derived from ctx, so the process group is already being killed.
		<-waited
		return Outcome{Kind: OutcomeCanceled, Phase: PhaseExec, Err: ctx.Err()}
	}
}

func (e *Executor) launch(ctx context.Context, cancelRun context.CancelFunc, cmd *exec.Cmd) (Outcome, bool) {
	started := make(chan error, 1)
	go func() { started <- e.start(cmd) }()

	timer := time.NewTimer(e.cfg.LaunchTimeout)
	defer timer.Stop()

	select {
	case err := <-started:
		if err != nil {
			return Outcome{Kind: OutcomeFailed, Phase: PhaseLaunch, Err: err}, false
		}
		return Outcome{}, true
	case <-timer.C:
		cancelRun()
		go reapLate(cmd, started)
		e.logger.Warn().Str("phase", string(PhaseLaunch)).Dur("limit", e.cfg.LaunchTimeout).Msg("command timed out")
		return Outcome{Kind: OutcomeTimedOut, Phase: PhaseLaunch, Limit: e.cfg.LaunchTimeout}, false
	case <-ctx.Done():
		cancelRun()
		go reapLate(cmd, started)
		return Outcome{Kind: OutcomeCanceled, Phase: PhaseLaunch, Err: ctx.Err()}, false
	}
}

// reapLate waits for an abandoned Start. The run context is already canceled,
// so a process that does come up is killed by exec's context watcher and
// reaped by Wait.
func reapLate(cmd *exec.Cmd, started <-chan error) {
	if err := <-started; err == nil {
		_ = cmd.Wait()
	}
}

func (e *Executor) exited(cmd *exec.Cmd, err error, stdout, stderr []byte) Outcome {
	out := Outcome{Kind: OutcomeExited, Phase: PhaseExec, Stdout: stdout, Stderr: stderr}
	if err == nil {
		return out
	}

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		out.ExitCode = exitStatus(exitErr.ProcessState)
	case errors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil:
		e.logger.Warn().Msg("output pipes held open after exit; closed after wait delay")
		out.ExitCode = exitStatus(cmd.ProcessState)
	default:
		return Outcome{Kind: OutcomeFailed, Phase: PhaseExec, Err: err}
	}
	return out
}
