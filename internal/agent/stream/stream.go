// Package stream frames a report run for the client: progress log lines
// while the workflow runs, then the report or the no-report sentinel.
package stream

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap/zapcore"
)

const (
	FinalReportHeader = "INFO: Final Report\n"
	NoReportSentinel  = "No report found, you probably have an issue with tavily or openai connection\n"
)

// Event is one progress line.
type Event struct {
	Level   string
	Message string
}

// Sink receives progress events. Implementations must be safe for
// concurrent use; branches log from their own goroutines.
type Sink interface {
	Emit(ev Event)
}

// Writer renders events as "LEVEL: message\n" lines on an io.Writer,
// flushing after every write so chunked clients see progress live.
type Writer struct {
	mu    sync.Mutex
	w     io.Writer
	flush func()
	err   error
	done  bool
}

func NewWriter(w io.Writer, flush func()) *Writer {
	return &Writer{w: w, flush: flush}
}

func (s *Writer) Emit(ev Event) {
	s.write(fmt.Sprintf("%s: %s\n", ev.Level, ev.Message))
}

// Finish writes the terminal chunk: the report when there is one, the
// sentinel line otherwise. Later events are dropped.
func (s *Writer) Finish(report string, ok bool) {
	if ok {
		s.write(FinalReportHeader, report)
	} else {
		s.write(NoReportSentinel)
	}
	s.mu.Lock()
	s.done = true
	s.mu.Unlock()
}

// Err returns the first write error, typically a disconnected client.
func (s *Writer) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Writer) write(chunks ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done || s.err != nil {
		return
	}
	for _, c := range chunks {
		if _, err := io.WriteString(s.w, c); err != nil {
			s.err = err
			return
		}
	}
	if s.flush != nil {
		s.flush()
	}
}

// LevelName maps zap levels onto the level names clients expect.
func LevelName(l zapcore.Level) string {
	switch l {
	case zapcore.DebugLevel:
		return "DEBUG"
	case zapcore.InfoLevel:
		return "INFO"
	case zapcore.WarnLevel:
		return "WARNING"
	case zapcore.ErrorLevel:
		return "ERROR"
	default:
		return "CRITICAL"
	}
}
