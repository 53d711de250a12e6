package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gaborage/go-fetch/config"
	"github.com/gaborage/go-fetch/fetch"
	"github.com/gaborage/go-fetch/logger"
	"github.com/gaborage/go-fetch/observability"
)

// Options describes a single request execution as assembled from
// command-line flags. Nil pointer fields fall back to configuration.
type Options struct {
	URL        string
	Method     string
	Headers    []string
	Body       string
	BodyFile   string
	Timeout    *time.Duration
	Retries    *int
	Backoff    *time.Duration
	Output     string
	AllowError bool
	ConfigFile string
}

// Factory function variables - replaced in tests
var (
	loadConfig = func(path string) (*config.Config, error) {
		if path != "" {
			return config.LoadFile(path)
		}
		return config.Load()
	}

	newProvider = func(cfg *observability.Config) (observability.Provider, error) {
		return observability.NewProvider(cfg)
	}

	newExecutor = func(log logger.Logger, defaults map[string]string) fetch.Executor {
		b := fetch.NewBuilder(log)
		for key, value := range defaults {
			b.WithDefaultHeader(key, value)
		}
		return b.Build()
	}

	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

// Fetch executes one HTTP request end to end: configuration, telemetry,
// the retry loop, and rendering. Every failure path maps onto a process
// exit code via ExitError.
func Fetch(ctx context.Context, opts Options) error {
	format, err := parseFormat(opts.Output)
	if err != nil {
		return &ExitError{Code: ExitConfig, Err: err}
	}

	cfg, err := loadConfig(opts.ConfigFile)
	if err != nil {
		return &ExitError{Code: ExitConfig, Err: err}
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	provider, err := newProvider(&cfg.Observability)
	if err != nil {
		return &ExitError{Code: ExitConfig, Err: err}
	}
	defer func() {
		if err := observability.Shutdown(provider, 0); err != nil {
			log.Warn().Err(err).Msg("Telemetry shutdown failed")
		}
	}()

	spec, err := buildSpec(opts, cfg)
	if err != nil {
		return &ExitError{Code: ExitConfig, Err: err}
	}

	policy := cfg.Retry.Policy()
	if opts.Retries != nil {
		policy.MaxRetries = *opts.Retries
	}
	if opts.Backoff != nil {
		policy.BackoffBase = *opts.Backoff
	}

	result, err := newExecutor(log, cfg.Request.Headers).Execute(ctx, spec, policy)
	if err != nil {
		return exitFromError(err)
	}

	if err := render(stdout, result, format); err != nil {
		return &ExitError{Code: ExitConfig, Err: err}
	}

	if result.StatusCode >= http.StatusBadRequest && !opts.AllowError {
		return &ExitError{Code: ExitHTTPError}
	}
	return nil
}

// buildSpec combines flags and configuration into a request spec.
// Flags win over configured values.
func buildSpec(opts Options, cfg *config.Config) (*fetch.RequestSpec, error) {
	headers, err := parseHeaders(opts.Headers)
	if err != nil {
		return nil, err
	}

	body, err := readBody(opts)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Request.Timeout
	if opts.Timeout != nil {
		timeout = *opts.Timeout
	}

	return &fetch.RequestSpec{
		URL:     opts.URL,
		Method:  opts.Method,
		Headers: headers,
		Body:    body,
		Timeout: timeout,
	}, nil
}

// parseHeaders converts repeated --header values into a map. Both
// "Key: Value" and "Key=Value" forms are accepted; the colon form wins
// when a value contains both separators.
func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		key, value, ok := strings.Cut(h, ":")
		if !ok {
			key, value, ok = strings.Cut(h, "=")
		}
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q (expected \"Key: Value\")", h)
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers, nil
}

// readBody resolves the request body from --body or --body-file.
// "-" reads stdin so bodies can be piped in.
func readBody(opts Options) ([]byte, error) {
	switch {
	case opts.Body != "" && opts.BodyFile != "":
		return nil, fmt.Errorf("--body and --body-file are mutually exclusive")
	case opts.Body != "":
		return []byte(opts.Body), nil
	case opts.BodyFile == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read body from stdin: %w", err)
		}
		return data, nil
	case opts.BodyFile != "":
		data, err := os.ReadFile(opts.BodyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read body file: %w", err)
		}
		return data, nil
	default:
		return nil, nil
	}
}

// exitFromError maps terminal executor errors onto exit codes.
func exitFromError(err error) *ExitError {
	switch {
	case fetch.IsErrorType(err, fetch.CancelledError):
		return &ExitError{Code: ExitCancelled, Err: err}
	case fetch.IsErrorType(err, fetch.ExhaustedError):
		return &ExitError{Code: ExitExhausted, Err: err}
	default:
		return &ExitError{Code: ExitConfig, Err: err}
	}
}
