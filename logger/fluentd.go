package logger

import (
	"io"
	"io/ioutil"
	"log"
	"strconv"
	"strings"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// DefaultFluentdTag tags the forwarded records when none is configured
const DefaultFluentdTag = "gowsc"

// DefaultFluentdPort fluentd forward port
const DefaultFluentdPort = 24224

// fluentdWriter forwards each written line as one structured record
type fluentdWriter struct {
	client *fluent.Fluent
	tag    string
	level  string
}

func (w *fluentdWriter) Write(p []byte) (int, error) {
	err := w.client.Post(w.tag, map[string]string{
		"level":   w.level,
		"message": strings.TrimRight(string(p), "\n"),
	})
	if nil != err {
		return 0, err
	}
	return len(p), nil
}

func initEfkLogger(address string, tag string) error {
	host := address
	port := DefaultFluentdPort
	if idx := strings.LastIndex(address, ":"); 0 <= idx {
		host = address[:idx]
		if value, err := strconv.Atoi(address[idx+1:]); nil == err {
			port = value
		}
	}
	client, err := fluent.New(fluent.Config{FluentHost: host, FluentPort: port})
	if nil != err {
		Error.Printf("connect fluentd logger address:%s failed with error:%v", address, err)
		return err
	}
	if "" == tag {
		tag = DefaultFluentdTag
	}
	rebuildEfkLoggers(client, tag)
	Info.Printf("logger initialized.")
	return nil
}

func rebuildEfkLoggers(client *fluent.Fluent, tag string) {
	loggerFlag := loggerFlags()
	Trace = log.New(efkWriter(client, tag, LogLevelTrace, "TRACE"), "[TRACE] ", loggerFlag)
	Debug = log.New(efkWriter(client, tag, LogLevelDebug, "DEBUG"), "[DEBUG] ", loggerFlag)
	Info = log.New(efkWriter(client, tag, LogLevelInfo, "INFO"), "[INFO] ", loggerFlag)
	Warning = log.New(efkWriter(client, tag, LogLevelWarning, "WARN"), "[WARN] ", loggerFlag)
	Error = log.New(efkWriter(client, tag, LogLevelError, "ERROR"), "[ERROR] ", loggerFlag)
	Fatal = log.New(efkWriter(client, tag, LogLevelFatal, "FATAL"), "[FATAL] ", loggerFlag)
}

func efkWriter(client *fluent.Fluent, tag string, level LogLevel, name string) io.Writer {
	if level < Level {
		return ioutil.Discard
	}
	return &fluentdWriter{client: client, tag: tag, level: name}
}
