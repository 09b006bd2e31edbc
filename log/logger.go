package log

import (
	"io"
	"os"
	"sync"

	"github.com/op/go-logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Level logging.Level

// The levels that can be passed to the SetLevel function.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

// The logger format
var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

// The format used by file sinks; colors are omitted.
var fileFormat = logging.MustStringFormatter(
	`[%{time:2006-01-02 15:04:05.000}] [%{module}] [%{level}] %{message}`,
)

var (
	mu sync.Mutex

	// The internal leveled logger backend
	leveledBackend logging.LeveledBackend

	// The console and (optional) file backends.
	consoleBackend logging.Backend
	fileBackend    logging.Backend
	fileSink       *lumberjack.Logger

	curLevel = logging.NOTICE
)

// The logger interface
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Notice(v ...interface{})
	Noticef(format string, v ...interface{})
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Warning(v ...interface{})
	Warningf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// Settings for the rotating log file sink.
type FileConfig struct {
	// Path to the log file.
	Path string

	// Max size in megabytes before the file gets rotated.
	MaxSizeMB int

	// Number of rotated files to keep.
	MaxBackups int

	// Max number of days to retain rotated files.
	MaxAgeDays int

	// Compress rotated files with gzip.
	Compress bool
}

// Create a new named logger.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// Override the backend output sink.
func SetSink(sink io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	backend := logging.NewLogBackend(sink, "", 0)
	consoleBackend = logging.NewBackendFormatter(backend, format)
	installBackends()
}

// Mirror log output to a rotating log file. Passing a config with an empty
// path detaches any previously attached file sink.
func SetFileSink(cfg FileConfig) {
	mu.Lock()
	defer mu.Unlock()

	if fileSink != nil {
		fileSink.Close()
		fileSink = nil
		fileBackend = nil
	}

	if cfg.Path != "" {
		fileSink = &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		fileBackend = logging.NewBackendFormatter(
			logging.NewLogBackend(fileSink, "", 0),
			fileFormat,
		)
	}

	installBackends()
}

// Flush and close the file sink if one is attached.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if fileSink == nil {
		return nil
	}
	return fileSink.Close()
}

// Set logger verbosity.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()

	switch level {
	case Debug:
		curLevel = logging.DEBUG
	case Info:
		curLevel = logging.INFO
	case Notice:
		curLevel = logging.NOTICE
	case Warning:
		curLevel = logging.WARNING
	case Error:
		curLevel = logging.ERROR
	}
	leveledBackend.SetLevel(curLevel, "")
}

// Parse a level name (debug, info, notice, warning, error).
func ParseLevel(name string) (Level, error) {
	level, err := logging.LogLevel(name)
	if err != nil {
		return Notice, err
	}

	switch level {
	case logging.DEBUG:
		return Debug, nil
	case logging.INFO:
		return Info, nil
	case logging.WARNING:
		return Warning, nil
	case logging.ERROR, logging.CRITICAL:
		return Error, nil
	}
	return Notice, nil
}

func installBackends() {
	backends := []logging.Backend{consoleBackend}
	if fileBackend != nil {
		backends = append(backends, fileBackend)
	}

	leveledBackend = logging.MultiLogger(backends...)
	leveledBackend.SetLevel(curLevel, "")
	logging.SetBackend(leveledBackend)
}

func init() {
	SetSink(os.Stdout)
	SetLevel(Notice)
}
