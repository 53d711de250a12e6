package handlers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gaborage/go-fetch/fetch"
)

const (
	// OutputText writes the raw response body to stdout.
	OutputText = "text"

	// OutputJSON writes a structured envelope carrying the status,
	// headers, payload, and retry statistics.
	OutputJSON = "json"
)

// parseFormat validates the --output flag before any request is made.
func parseFormat(s string) (string, error) {
	switch s {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected %q or %q)", s, OutputText, OutputJSON)
	}
}

// envelope is the JSON rendering of a completed request. Exactly one of
// Payload and Body is populated: Payload when the response decoded as
// JSON, Body otherwise.
type envelope struct {
	Status     int                 `json:"status"`
	Headers    map[string][]string `json:"headers,omitempty"`
	Payload    any                 `json:"payload,omitempty"`
	Body       string              `json:"body,omitempty"`
	ParseError string              `json:"parse_error,omitempty"`
	Attempts   int                 `json:"attempts"`
	Timeouts   int                 `json:"timeouts,omitempty"`
	ElapsedMs  int64               `json:"elapsed_ms"`
}

// render writes the result to w in the requested format. Text mode
// emits the body verbatim so responses can be piped; logs stay on
// stderr either way.
func render(w io.Writer, res *fetch.Result, format string) error {
	if format == OutputText {
		if len(res.Body) == 0 {
			return nil
		}
		_, err := w.Write(res.Body)
		return err
	}

	env := envelope{
		Status:    res.StatusCode,
		Headers:   res.Headers,
		Attempts:  res.Stats.Attempts,
		Timeouts:  res.Stats.Timeouts,
		ElapsedMs: res.Stats.ElapsedTime.Milliseconds(),
	}
	if res.JSON() {
		env.Payload = res.Payload
	} else {
		env.Body = string(res.Body)
	}
	if res.ParseErr != nil {
		env.ParseError = res.ParseErr.Error()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}
