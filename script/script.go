// Package script runs command-line tools with standardized configuration,
// logging, tracing, signal handling, and exit code management.
package script

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"sync"

	"github.com/amp-labs/amp-fsm/config"
	"github.com/amp-labs/amp-fsm/logger"
	"github.com/amp-labs/amp-fsm/telemetry"
)

// Exit codes.
const (
	codeOK     = 0
	codeFailed = 1
	codeConfig = 2
)

// Option is a function that configures a Script.
type Option func(script *Script)

// Exit returns an error that will cause the script to exit with the given code.
// Use this to exit with a specific code without logging an error.
func Exit(code int) error {
	return &exitError{
		code: code,
	}
}

// ExitWithError returns an error that will cause the script to exit with code 1
// and log the provided error.
func ExitWithError(err error) error {
	return &exitError{
		err:  err,
		code: codeFailed,
	}
}

// ExitWithErrorMessage returns an error that will cause the script to exit with code 1
// and log a formatted error message.
func ExitWithErrorMessage(msg string, args ...any) error {
	return &exitError{
		err:  fmt.Errorf(msg, args...), //nolint:err113
		code: codeFailed,
	}
}

// exitError is an error type that carries an exit code for script termination.
type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string {
	msg := "exit " + strconv.FormatInt(int64(e.code), 10)

	if e.err != nil {
		return msg + ": " + e.err.Error()
	}

	return msg
}

func (e *exitError) Unwrap() error {
	return e.err
}

// LogLevel overrides the configured minimum log level.
func LogLevel(lvl slog.Level) Option {
	return func(script *Script) {
		script.loggerOpts = append(script.loggerOpts, func(options *logger.Options) {
			options.MinLevel = lvl
		})
	}
}

// LogOutput overrides the configured log destination.
func LogOutput(writer io.Writer) Option {
	return func(script *Script) {
		script.loggerOpts = append(script.loggerOpts, func(options *logger.Options) {
			options.Output = writer
		})
	}
}

// EnableFlagParse controls whether flag.Parse() is called before running the script.
// Defaults to true.
func EnableFlagParse(enabled bool) Option {
	return func(script *Script) {
		script.flagParseEnable = enabled
	}
}

// Environment makes the script read its configuration from vars instead of
// the process environment.
func Environment(vars map[string]string) Option {
	return func(script *Script) {
		script.environment = vars
	}
}

// Script represents a runnable tool.
type Script struct {
	name            string
	flagParseEnable bool
	environment     map[string]string
	loggerOpts      []logger.Option
}

// New creates a new Script with the given name and options.
// By default, flag parsing is enabled.
func New(scriptName string, opts ...Option) *Script {
	script := &Script{
		name:            scriptName,
		flagParseEnable: true,
	}

	for _, opt := range opts {
		opt(script)
	}

	return script
}

// Run executes f and exits the process with its exit code. The context
// passed to f is canceled on SIGINT. Run does not return.
func (r *Script) Run(f func(ctx context.Context, cfg config.Config) error) {
	os.Exit(r.Execute(f))
}

// Execute is Run without the os.Exit: it returns the exit code.
func (r *Script) Execute(callback func(ctx context.Context, cfg config.Config) error) int {
	if r.flagParseEnable {
		flag.Parse()
	}

	// Catch Ctrl+C and handle it gracefully by shutting down the context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	stopOnce := sync.Once{}
	cancel := func() {
		stopOnce.Do(stop)
	}

	defer cancel()

	cfg, err := r.loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", r.name, err)

		return codeConfig
	}

	if _, err := logger.ConfigureLogging(r.name, cfg.Logging, r.loggerOpts...); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", r.name, err)

		return codeConfig
	}

	log := logger.Get(ctx)

	if err := telemetry.Initialize(ctx, cfg.Telemetry); err != nil {
		log.Warn("tracing unavailable", "error", err)
	}

	defer func() {
		if err := telemetry.Shutdown(context.WithoutCancel(ctx)); err != nil {
			log.Warn("failed to flush traces", "error", err)
		}
	}()

	if callback == nil {
		log.Error("callback is nil")

		return codeFailed
	}

	return exitCode(log, callback(ctx, cfg))
}

func (r *Script) loadConfig() (config.Config, error) {
	if r.environment != nil {
		return config.LoadFrom(r.environment)
	}

	return config.Load()
}

func exitCode(log *slog.Logger, err error) int {
	if err == nil {
		return codeOK
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.code != codeOK {
			log.Error("error running script", "error", err)
		}

		return exitErr.code
	}

	log.Error("error running script", "error", err)

	return codeFailed
}
