// SPDX-License-Identifier: GPL-3.0-or-later
package log

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	loggersMu sync.RWMutex
	loggers   map[string]*logrus.Logger
)

func NewPrefixLogger(prefix string) *PrefixLogger {
	stringPrefix := fmt.Sprintf("%s:\t", prefix)

	formatter := &logrus.TextFormatter{}
	formatter.FullTimestamp = true
	formatter.TimestampFormat = "15:04:05"
	formatter.DisableColors = strings.Contains(runtime.GOOS, "windows")
	return &PrefixLogger{
		formatter,
		[]byte(stringPrefix),
	}
}

type PrefixLogger struct {
	formatter logrus.Formatter
	prefix    []byte
}

func (f *PrefixLogger) Format(entry *logrus.Entry) ([]byte, error) {
	text, err := f.formatter.Format(entry)
	if err != nil {
		return nil, err
	}
	return append(f.prefix, text...), nil
}

const (
	LOG_MAIN         = "MA"
	LOG_BATCH        = "BR"
	LOG_DISPATCHER   = "PD"
	LOG_POLLER       = "RP"
	LOG_PERSISTENCE  = "PI"
	LOG_API          = "API"
	LOG_SMTP         = "SM"
	LOG_SPAMASSASSIN = "SA"
	LOG_REPORT       = "RE"
)

var prefixes = []string{
	LOG_MAIN,
	LOG_BATCH,
	LOG_DISPATCHER,
	LOG_POLLER,
	LOG_PERSISTENCE,
	LOG_API,
	LOG_SMTP,
	LOG_SPAMASSASSIN,
	LOG_REPORT,
}

func getLevel(loglevel string) logrus.Level {
	switch strings.ToLower(loglevel) {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "panic":
		return logrus.PanicLevel
	case "fatal":
		return logrus.FatalLevel
	}

	// Info is default
	return logrus.InfoLevel
}

func initLogger(prefix, loglevel string) {
	loggers[prefix] = logrus.New()
	loggers[prefix].Level = getLevel(loglevel)
	loggers[prefix].Formatter = NewPrefixLogger(prefix)
}

func InitLogging(loglevel string) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	loggers = make(map[string]*logrus.Logger)
	for _, prefix := range prefixes {
		initLogger(prefix, loglevel)
	}
}

func SetLogLevel(loglevel string) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, v := range loggers {
		v.Level = getLevel(loglevel)
	}
}

// SetOutput redirects every component logger, used by tests to silence output.
func SetOutput(w io.Writer) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, v := range loggers {
		v.SetOutput(w)
	}
}

// Logger returns the logger for a component prefix. Logging is initialized
// lazily at info level so library users don't have to call InitLogging.
func Logger(logger string) *logrus.Logger {
	loggersMu.RLock()
	initialized := loggers != nil
	loggersMu.RUnlock()
	if !initialized {
		InitLogging("info")
	}

	loggersMu.RLock()
	defer loggersMu.RUnlock()
	l, ok := loggers[logger]
	if !ok {
		panic("Logger " + logger + " unknown")
	}

	return l
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
