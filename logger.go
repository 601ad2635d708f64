package pagestitch

// Logger receives progress events from a running extraction. The library
// logs nothing by default; callers can inject a logger (a *logrus.Logger
// satisfies the interface) to observe long-running documents.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any) {}
func (nopLogger) Warnf(string, ...any) {}
