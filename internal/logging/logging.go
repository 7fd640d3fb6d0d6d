// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// Setup builds a text logger on w at level. When file is set, records are
// also written as JSON to file. The DEBUG or POSEIDON_DEBUG environment
// variables force debug level. The returned func closes the log file.
func Setup(w io.Writer, level, file string) (*slog.Logger, func() error, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	if os.Getenv("DEBUG") != "" || os.Getenv("POSEIDON_DEBUG") != "" {
		lvl = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: lvl}

	closer := func() error { return nil }
	var handler slog.Handler = slog.NewTextHandler(w, opts)

	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		handler = slogmulti.Fanout(
			handler,
			slog.NewJSONHandler(f, opts),
		)
		closer = f.Close
	}

	return slog.New(handler).With(slog.String("service", "poseidon")), closer, nil
}

// ParseLevel parses debug, info, warn or error. Empty means warn.
func ParseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelWarn, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}
