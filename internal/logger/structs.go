package logger

// Console configures console output.
type Console struct {
	Enabled          bool
	UseConsoleWriter bool // human readable output instead of JSON
}

// LogFile configures rolling file output. Errors and warnings go to ErrorLog,
// everything else to InfoLog.
type LogFile struct {
	Enabled    bool
	Path       string
	InfoLog    string
	ErrorLog   string
	MaxSize    int // megabytes
	MaxAge     int // days
	MaxBackups int
}

// Log implements the logger config.
type Log struct {
	LogLevel     string // trace, debug, info, warn, error
	ReportCaller bool
	AppName      string
	ServiceName  string

	Console Console
	File    LogFile
}
