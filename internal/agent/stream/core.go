package stream

import (
	"go.uber.org/zap/zapcore"
)

// core is a zapcore.Core that forwards each entry's message to a Sink.
// Structured fields stay in the process log; the client sees only the
// message text.
type core struct {
	zapcore.LevelEnabler
	sink Sink
}

// NewCore returns a core mirroring entries at or above enab into sink. Tee
// it with the process core so stage logs reach both destinations.
func NewCore(sink Sink, enab zapcore.LevelEnabler) zapcore.Core {
	return &core{LevelEnabler: enab, sink: sink}
}

func (c *core) With([]zapcore.Field) zapcore.Core { return c }

func (c *core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *core) Write(ent zapcore.Entry, _ []zapcore.Field) error {
	c.sink.Emit(Event{Level: LevelName(ent.Level), Message: ent.Message})
	return nil
}

func (c *core) Sync() error { return nil }
