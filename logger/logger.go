package logger

import (
	"io"
	"io/ioutil"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LogLevel type
type LogLevel int

// Recording types
const (
	RecordingTypeFilelog = "filelog"
	RecordingTypeEFK     = "efk"
)

// LogLevels
const (
	LogLevelTrace LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarning
	LogLevelError
	LogLevelFatal
)

// Variables
var (
	Trace   *log.Logger = log.New(os.Stdout, "[TRACE] ", log.Ldate|log.Ltime|log.Lshortfile)
	Debug   *log.Logger = log.New(os.Stdout, "[DEBUG] ", log.Ldate|log.Ltime|log.Lshortfile)
	Info    *log.Logger = log.New(os.Stdout, "[INFO] ", log.Ldate|log.Ltime|log.Lshortfile)
	Warning *log.Logger = log.New(os.Stdout, "[WARN] ", log.Ldate|log.Ltime|log.Lshortfile)
	Error   *log.Logger = log.New(io.MultiWriter(os.Stdout, os.Stderr), "[ERROR] ", log.Ldate|log.Ltime|log.Lshortfile)
	Fatal   *log.Logger = log.New(io.MultiWriter(os.Stdout, os.Stderr), "[FATAL] ", log.Ldate|log.Ltime|log.Lshortfile)
	Level   LogLevel    = LogLevelDebug
)

// Init initializer
func Init(loggerConfig *Logger) error {
	if nil == loggerConfig {
		return nil
	}
	Level = convertLogLevel(loggerConfig.Level)
	switch loggerConfig.Type {
	case RecordingTypeFilelog:
		return initFilelog(loggerConfig.Address)
	case RecordingTypeEFK:
		return initEfkLogger(loggerConfig.Address, loggerConfig.Tag)
	}
	rebuildLoggers(nil)
	return nil
}

// IsDebugEnabled boolean
func IsDebugEnabled() bool {
	return Level <= LogLevelDebug
}

func convertLogLevel(logLevel string) LogLevel {
	actLogLevel := LogLevelDebug
	switch strings.ToUpper(logLevel) {
	case "TRACE":
		actLogLevel = LogLevelTrace
		break
	case "DEBUG":
		actLogLevel = LogLevelDebug
		break
	case "INFO":
		actLogLevel = LogLevelInfo
		break
	case "WARN":
		actLogLevel = LogLevelWarning
		break
	case "ERROR":
		actLogLevel = LogLevelError
		break
	case "FATAL":
		actLogLevel = LogLevelFatal
		break
	}
	return actLogLevel
}

func loggerFlags() int {
	loggerFlag := log.Ldate | log.Ltime
	if Level < LogLevelWarning {
		loggerFlag += log.Lshortfile
	}
	return loggerFlag
}

func levelWriter(file *os.File, level LogLevel) io.Writer {
	if level < Level {
		return ioutil.Discard
	} else if level < LogLevelError {
		if file != nil {
			return file
		}
		return os.Stdout
	} else {
		if file != nil {
			return io.MultiWriter(file, os.Stderr)
		}
		return io.MultiWriter(os.Stdout, os.Stderr)
	}
}

func rebuildLoggers(file *os.File) {
	loggerFlag := loggerFlags()
	Trace = log.New(levelWriter(file, LogLevelTrace), "[TRACE] ", loggerFlag)
	Debug = log.New(levelWriter(file, LogLevelDebug), "[DEBUG] ", loggerFlag)
	Info = log.New(levelWriter(file, LogLevelInfo), "[INFO] ", loggerFlag)
	Warning = log.New(levelWriter(file, LogLevelWarning), "[WARN] ", loggerFlag)
	Error = log.New(levelWriter(file, LogLevelError), "[ERROR] ", loggerFlag)
	Fatal = log.New(levelWriter(file, LogLevelFatal), "[FATAL] ", loggerFlag)
}

func initFilelog(logPath string) error {
	curPath, err := filepath.Abs(filepath.Dir(os.Args[0]))
	if err != nil {
		curPath = ""
	}
	if logPath == "" {
		_, fName := path.Split(os.Args[0])
		fSlices := strings.Split(fName, ".")
		logPath = "../log/" + fSlices[0] + ".log"
	}
	if strings.HasPrefix(logPath, ".") {
		logPath = path.Join(curPath, logPath)
	}

	logDir, _ := path.Split(logPath)
	if logDir != "" {
		os.MkdirAll(logDir, 0776)
	}

	file, err := rotator.open(logPath)
	if err != nil {
		log.Printf("Open logger file:%s failed with error:%v", logPath, err)
		return err
	}
	rebuildLoggers(file)
	Info.Printf("logger initialized.")
	rotator.schedule()
	return nil
}
