package core

// Logger is any service that can log messages & errors.
// expected args fmt: error | map[string]interface{} | Person
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person is the authenticated caller attached to a log entry.
type Person struct {
	Subject string
	Admin   bool
}
