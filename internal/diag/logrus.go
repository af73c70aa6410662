package diag

import "github.com/sirupsen/logrus"

type logrusSink struct {
	log logrus.FieldLogger
}

// NewLogrus writes events as structured log lines.
func NewLogrus(l logrus.FieldLogger) Sink {
	if l == nil {
		return Nop
	}
	return logrusSink{log: l}
}

func (s logrusSink) Emit(e Event) {
	entry := s.log.WithField("component", e.Component)
	if len(e.Fields) > 0 {
		entry = entry.WithFields(logrus.Fields(e.Fields))
	}
	switch e.Level {
	case LevelError:
		entry.Error(e.Message)
	case LevelWarn:
		entry.Warn(e.Message)
	default:
		entry.Debug(e.Message)
	}
}
