package core

// Logger logs a message with optional arguments: an error, a map[string]interface{} of extras,
// a LogUser, or key/value pairs.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// LogUser tags a log entry with the id of the acting user.
type LogUser string
