package ladder

type Logger interface {
	Debugf(format string, args ...interface{})

	Infof(format string, args ...interface{})

	Warningf(format string, args ...interface{})

	Errorf(format string, args ...interface{})

	Fatalf(format string, args ...interface{})

	WithField(key string, value interface{}) Logger

	WithFields(fields map[string]interface{}) Logger
}

// NewNoopLogger returns a logger discarding all entries. Meant for
// tests and headless backtests.
func NewNoopLogger() Logger {
	return &noopLogger{}
}

type noopLogger struct{}

func (nl *noopLogger) Debugf(format string, args ...interface{}) {}

func (nl *noopLogger) Infof(format string, args ...interface{}) {}

func (nl *noopLogger) Warningf(format string, args ...interface{}) {}

func (nl *noopLogger) Errorf(format string, args ...interface{}) {}

func (nl *noopLogger) Fatalf(format string, args ...interface{}) {}

func (nl *noopLogger) WithField(key string, value interface{}) Logger {
	return nl
}

func (nl *noopLogger) WithFields(fields map[string]interface{}) Logger {
	return nl
}
