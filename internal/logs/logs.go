// Package logs holds the leveled loggers shared by the engine packages.
package logs

import (
	"io"
	"log"
	"os"
)

const flags = log.Ldate | log.Ltime | log.Lshortfile

var (
	Info  = log.New(os.Stderr, "INFO: ", flags)
	Warn  = log.New(os.Stderr, "WARNING: ", flags)
	Error = log.New(os.Stderr, "ERROR: ", flags)
)

// SetOutput redirects every level to w.
func SetOutput(w io.Writer) {
	Info.SetOutput(w)
	Warn.SetOutput(w)
	Error.SetOutput(w)
}

var exit = os.Exit

//Runs the finalizers in order, reports err at error level and terminates the
//process with a failure status. Does nothing when err is nil
func Fatal(err error, finalizers ...func()) {
	if err == nil {
		return
	}
	for _, fn := range finalizers {
		fn()
	}
	Error.Output(2, err.Error())
	exit(1)
}
