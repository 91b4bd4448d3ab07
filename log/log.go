package log

import (
	"io"
	"log"
	"os"
)

var (
	Trace   *log.Logger
	Info    *log.Logger
	Warning *log.Logger
	Error   *log.Logger
)

func init() {
	initWriters(io.Discard, os.Stdout, os.Stdout, os.Stderr)
}

// InitLog sets up the loggers; tracing is enabled with KANATRAIN_TRACE=1
func InitLog() {
	var trace io.Writer = io.Discard
	if os.Getenv("KANATRAIN_TRACE") == "1" {
		trace = os.Stdout
	}
	initWriters(trace, os.Stdout, os.Stdout, os.Stderr)
}

func initWriters(trace, info, warning, errw io.Writer) {
	Trace = log.New(trace, "TRACE: ", log.Ldate|log.Ltime|log.Lshortfile)
	Info = log.New(info, "", 0)
	Warning = log.New(warning, "WARNING: ", log.Ldate|log.Ltime)
	Error = log.New(errw, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
}
