package service

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"time"

	"github.com/fadilmartias/career-gateway/internal/config"
	"github.com/fadilmartias/career-gateway/internal/dto"
	"github.com/fadilmartias/career-gateway/internal/logger"
	"github.com/fadilmartias/career-gateway/internal/model"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrProcessFailed reports a scoring process that could not finish with
	// exit code 0. Its output is never used.
	ErrProcessFailed = errors.New("culture match process failed")
	// ErrMalformedOutput reports a successful exit whose stdout is not JSON.
	ErrMalformedOutput = errors.New("culture match output is not valid JSON")
)

const (
	processWaitDelay = 5 * time.Second
	readChunkSize    = 4096
	maxLoggedOutput  = 512
	maxStderrLine    = 1024 * 1024
)

type CultureMatcher interface {
	Match(ctx context.Context, req dto.CulturalMatchRequest) (*model.BackendResponse, error)
}

func NewCultureMatcher(cfg *config.CultureMatchConfig, backend BackendServiceInterface, log *zap.Logger) CultureMatcher {
	if cfg.Mode == config.CultureMatchModeHTTP {
		return &HTTPCultureMatcher{backend: backend}
	}
	return NewProcessCultureMatcher(cfg, log)
}

// ProcessCultureMatcher runs the scoring script once per request. Nothing is
// shared between invocations: each gets its own process and its own buffers.
type ProcessCultureMatcher struct {
	cfg         *config.CultureMatchConfig
	logger      *zap.Logger
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

type ProcessOption func(*ProcessCultureMatcher)

// WithCommandContext replaces exec.CommandContext when building the scoring
// command.
func WithCommandContext(fn func(ctx context.Context, name string, args ...string) *exec.Cmd) ProcessOption {
	return func(m *ProcessCultureMatcher) {
		m.execCommand = fn
	}
}

func NewProcessCultureMatcher(cfg *config.CultureMatchConfig, log *zap.Logger, opts ...ProcessOption) *ProcessCultureMatcher {
	m := &ProcessCultureMatcher{
		cfg:         cfg,
		logger:      log,
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *ProcessCultureMatcher) Match(ctx context.Context, req dto.CulturalMatchRequest) (*model.BackendResponse, error) {
	log := m.logger.With(zap.String("invocation_id", uuid.NewString()))

	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()
	}

	args := []string{m.cfg.Script, "--input", req.Preferences, "--top_n", strconv.Itoa(req.TopN)}
	cmd := m.execCommand(ctx, m.cfg.Python, args...)
	cmd.Dir = m.cfg.Dir
	cmd.WaitDelay = processWaitDelay

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("opening stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("opening stderr pipe: %w", err)
	}

	log.Debug("starting culture match process", zap.String("python", m.cfg.Python), zap.String("script", m.cfg.Script), zap.Int("top_n", req.TopN))
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting culture match process: %w", err)
	}

	var outBuf, errBuf bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		return collectStdout(stdout, &outBuf, log)
	})
	g.Go(func() error {
		return collectStderr(stderr, &errBuf, log)
	})
	readErr := g.Wait()
	waitErr := cmd.Wait()

	if waitErr != nil {
		var exitErr *exec.ExitError
		code := -1
		if errors.As(waitErr, &exitErr) {
			code = exitErr.ExitCode()
		}
		log.Error("culture match process exited with error",
			zap.Int("exit_code", code),
			zap.Error(waitErr),
			zap.NamedError("context", ctx.Err()),
			zap.String("stderr", logger.TruncateForLog(errBuf.String(), maxLoggedOutput)),
		)
		return nil, fmt.Errorf("%w: exit code %d: %v", ErrProcessFailed, code, waitErr)
	}
	if readErr != nil {
		return nil, fmt.Errorf("reading culture match output: %w", readErr)
	}

	out := bytes.TrimSpace(outBuf.Bytes())
	if !gjson.ValidBytes(out) {
		log.Error("culture match output is not valid JSON",
			zap.String("stdout", logger.TruncateForLog(string(out), maxLoggedOutput)),
		)
		return nil, ErrMalformedOutput
	}

	log.Debug("culture match process finished", zap.Int("bytes", len(out)))
	return &model.BackendResponse{StatusCode: 200, Body: out}, nil
}

func collectStdout(r io.Reader, dst *bytes.Buffer, log *zap.Logger) error {
	chunk := make([]byte, readChunkSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			dst.Write(chunk[:n])
			log.Debug("received stdout data", zap.Int("bytes", n))
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func collectStderr(r io.Reader, dst *bytes.Buffer, log *zap.Logger) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, readChunkSize), maxStderrLine)
	for scanner.Scan() {
		line := scanner.Text()
		dst.WriteString(line)
		dst.WriteByte('\n')
		log.Debug("received stderr data", zap.String("line", line))
	}
	if err := scanner.Err(); err != nil {
		// stderr is diagnostic only; drain it so the process never blocks on a full pipe
		log.Warn("stopped reading culture match stderr", zap.Error(err))
		_, _ = io.Copy(io.Discard, r)
	}
	return nil
}

// HTTPCultureMatcher asks the backend's scoring endpoint instead of spawning
// a process. The request/response contract is the same.
type HTTPCultureMatcher struct {
	backend BackendServiceInterface
}

func (m *HTTPCultureMatcher) Match(ctx context.Context, req dto.CulturalMatchRequest) (*model.BackendResponse, error) {
	return m.backend.CulturalMatch(ctx, req)
}
