package logflags

import (
	"errors"
	"io"
	"log"
	"strings"

	"github.com/sirupsen/logrus"
)

var procMem = false
var native = false

var logOut io.WriteCloser

func makeLogger(flag bool, fields Fields) Logger {
	lf := loggerFactory
	if lf == nil {
		lf = newLogrusLogger
	}
	return lf(flag, fields, logOut)
}

func newLogrusLogger(flag bool, fields Fields, out io.Writer) Logger {
	logger := logrus.New().WithFields(logrus.Fields(fields))
	logger.Logger.Formatter = textFormatterInstance
	if out != nil {
		logger.Logger.Out = out
	}
	logger.Logger.Level = logrus.DebugLevel
	if !flag {
		logger.Logger.Level = logrus.ErrorLevel
	}
	return &logrusLogger{logger}
}

// ProcMem returns true if the memory access engine should log its reads.
func ProcMem() bool {
	return procMem
}

// ProcMemLogger returns a logger for the process memory engine.
func ProcMemLogger() Logger {
	return makeLogger(procMem, Fields{"layer": "procmem"})
}

// Native returns true if the native read backends should log.
func Native() bool {
	return native
}

// NativeLogger returns a logger for the native read backends.
func NativeLogger() Logger {
	return makeLogger(native, Fields{"layer": "native"})
}

var errLogstrWithoutLog = errors.New("log output specified without logging enabled")

// Setup sets logging flags based on the contents of logstr, a
// comma-separated list of layer names.
func Setup(logFlag bool, logstr string) error {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	if !logFlag {
		log.SetOutput(io.Discard)
		if logstr != "" {
			return errLogstrWithoutLog
		}
		return nil
	}
	if logstr == "" {
		logstr = "procmem"
	}
	for _, logcmd := range strings.Split(logstr, ",") {
		switch logcmd {
		case "procmem":
			procMem = true
		case "native":
			native = true
		}
	}
	return nil
}

// Close closes the logger output, if one was set with SetOutput.
func Close() {
	if logOut != nil {
		logOut.Close()
		logOut = nil
	}
}

// SetOutput directs all loggers created after this call to out.
func SetOutput(out io.WriteCloser) {
	logOut = out
}

var textFormatterInstance = &logrus.TextFormatter{
	DisableColors:   true,
	FullTimestamp:   true,
	TimestampFormat: "2006-01-02T15:04:05Z07:00",
}
