// Package logger provides the process-wide leveled loggers. Debug output
// is off unless LOG_DEBUG is set.
package logger

import (
	"io"
	"log"
	"os"
)

var (
	InfoLogger  *log.Logger
	ErrorLogger *log.Logger
	DebugLogger *log.Logger
)

const stamp = log.Ldate | log.Ltime | log.Lshortfile

func Init() {
	InfoLogger = log.New(os.Stdout, "INFO: ", stamp)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", stamp)

	debugOut := io.Discard
	if os.Getenv("LOG_DEBUG") != "" {
		debugOut = os.Stdout
	}
	DebugLogger = log.New(debugOut, "DEBUG: ", stamp)
}

func Info(msg string) { InfoLogger.Println(msg) }

func Infof(format string, v ...interface{}) { InfoLogger.Printf(format, v...) }

func Error(msg string) { ErrorLogger.Println(msg) }

func Errorf(format string, v ...interface{}) { ErrorLogger.Printf(format, v...) }

func Debug(msg string) { DebugLogger.Println(msg) }

func Debugf(format string, v ...interface{}) { DebugLogger.Printf(format, v...) }

func Fatal(msg string) { ErrorLogger.Fatal(msg) }

func Fatalf(format string, v ...interface{}) { ErrorLogger.Fatalf(format, v...) }
