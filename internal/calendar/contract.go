package calendar

// Logger диагностический логгер календаря
type Logger interface {
	Debug(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
