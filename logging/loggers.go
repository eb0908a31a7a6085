package logging

import (
	"io/ioutil"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// const
const (
	PanicLevel = "panic"
	FatalLevel = "fatal"
	ErrorLevel = "error"
	WarnLevel  = "warn"
	InfoLevel  = "info"
	DebugLevel = "debug"
	TraceLevel = "trace"
)

const (
	PANIC uint32 = iota
	FATAL
	ERROR
	WARN
	INFO
	DEBUG
	TRACE
)

const (
	//MsgFormatSingle records the caller only
	MsgFormatSingle uint32 = iota
	//MsgFormatMulti records a short call chain
	MsgFormatMulti
)

// LogFormat is to log format
type LogFormat = map[string]interface{}

type Logger struct {
	*logrus.Logger
}

func NewLogger() *Logger {
	return &Logger{
		Logger: logrus.New(),
	}
}

// logger pointers are set by Init, or lazily by the first print.
var (
	mu   sync.Mutex
	clog *Logger
	vlog *Logger
)

func convertLevel(level string) logrus.Level {
	switch level {
	case PanicLevel:
		return logrus.PanicLevel
	case FatalLevel:
		return logrus.FatalLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case WarnLevel:
		return logrus.WarnLevel
	case InfoLevel:
		return logrus.InfoLevel
	case DebugLevel:
		return logrus.DebugLevel
	case TraceLevel:
		return logrus.TraceLevel
	default:
		return logrus.InfoLevel
	}
}

// Init sets up both loggers. vlog writes to the rotated files under path only,
// clog writes to the same files and to stderr unless disableCPrint is set.
func Init(path, filename string, level string, age uint32, disableCPrint bool) error {
	fileHooker, err := NewFileRotateHooker(path, filename, age, nil)
	if err != nil {
		return err
	}

	v := NewLogger()
	LoadFunctionHooker(v)
	v.Hooks.Add(fileHooker)
	v.Out = ioutil.Discard
	v.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	v.Level = convertLevel(level)

	c := v
	if !disableCPrint {
		c = NewLogger()
		LoadFunctionHooker(c)
		c.Hooks.Add(fileHooker)
		c.Out = os.Stderr
		c.Formatter = &logrus.TextFormatter{FullTimestamp: true}
		c.Level = convertLevel(level)
	}

	mu.Lock()
	vlog, clog = v, c
	mu.Unlock()

	v.WithFields(logrus.Fields{
		"path":  path,
		"level": level,
	}).Info("Logger Configuration.")
	return nil
}

func loggers() (*Logger, *Logger) {
	mu.Lock()
	defer mu.Unlock()
	if clog == nil || vlog == nil {
		fallback := NewLogger()
		LoadFunctionHooker(fallback)
		fallback.Out = os.Stderr
		fallback.Formatter = &logrus.TextFormatter{FullTimestamp: true}
		clog, vlog = fallback, fallback
	}
	return clog, vlog
}

// CPrint into stderr + log
func CPrint(level uint32, msg string, formats ...LogFormat) {
	c, _ := loggers()
	output(c, level, msg, formats...)
}

// VPrint into log
func VPrint(level uint32, msg string, formats ...LogFormat) {
	_, v := loggers()
	output(v, level, msg, formats...)
}

func output(l *Logger, level uint32, msg string, formats ...LogFormat) {
	data := mergeLogFormats(formats...)
	if level <= ERROR || level > TRACE {
		data[callRelationKey] = MsgFormatMulti
	} else {
		data[callRelationKey] = MsgFormatSingle
	}
	entry := l.WithFields(data)
	switch level {
	case PANIC:
		entry.Panic(msg)
	case FATAL:
		entry.Fatal(msg)
	case ERROR:
		entry.Error(msg)
	case WARN:
		entry.Warn(msg)
	case INFO:
		entry.Info(msg)
	case DEBUG:
		entry.Debug(msg)
	case TRACE:
		entry.Trace(msg)
	default:
		entry.Error(msg)
	}
}

// mergeLogFormats merges LogFormats.
// Same key would be covered by later-presented values.
func mergeLogFormats(formats ...LogFormat) LogFormat {
	format := LogFormat{}
	for _, data := range formats {
		for k, v := range data {
			format[k] = v
		}
	}
	return format
}
