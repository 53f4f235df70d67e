// Package logging builds the logfmt loggers shared by every front end.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

var Levels = []string{"debug", "info", "warn", "error"}

// New returns a logfmt logger writing to w that drops records below lvl.
// Every record carries a UTC timestamp and the caller.
func New(w io.Writer, lvl string) (log.Logger, error) {
	opt, err := allow(lvl)
	if err != nil {
		return nil, err
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = level.NewFilter(logger, opt)
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller), nil
}

func allow(lvl string) (level.Option, error) {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return level.AllowDebug(), nil
	case "", "info":
		return level.AllowInfo(), nil
	case "warn", "warning":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	}
	return nil, fmt.Errorf("unknown log level %q (want one of %s)", lvl, strings.Join(Levels, ", "))
}
