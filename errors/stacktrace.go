package errors

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// stackTrace returns the first found stack trace frame carried by given
// error or any wrapped error. It returns nil if no stack trace is found.
func stackTrace(err error) errors.StackTrace {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}

	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}

// Format works like pkg/errors, with additions.
// %s is just the error message
// %+v is the full stack trace
// %v appends a compressed [filename:line] where the error was created
func (e *wrappedError) Format(s fmt.State, verb rune) {
	// normal output here....
	if verb != 'v' {
		fmt.Fprint(s, e.Error())
		return
	}
	// work with the stack trace... whole or part
	stack := trimInternal(stackTrace(e))
	if s.Flag('+') {
		fmt.Fprintf(s, "%+v\n", stack)
		fmt.Fprint(s, e.Error())
	} else {
		fmt.Fprint(s, e.Error())
		writeSimpleFrame(s, stack)
	}
}

// trimInternal removes all frames that belong to this package, so the
// first frame is where the error was created.
func trimInternal(st errors.StackTrace) errors.StackTrace {
	for len(st) > 0 && matchesFunc(st[0], "github.com/iov-one/bridge/errors.") {
		st = st[1:]
	}
	for len(st) > 0 && matchesFunc(st[len(st)-1], "runtime.") {
		st = st[:len(st)-1]
	}
	return st
}

func matchesFunc(f errors.Frame, prefix string) bool {
	fn := runtime.FuncForPC(uintptr(f) - 1)
	if fn == nil {
		return false
	}
	if !strings.HasPrefix(fn.Name(), prefix) {
		return false
	}
	file, _ := fn.FileLine(uintptr(f) - 1)
	return !strings.HasSuffix(file, "_test.go")
}

func writeSimpleFrame(s io.Writer, st errors.StackTrace) {
	if len(st) == 0 {
		return
	}
	f := st[0]
	file, line := "unknown", 0
	if fn := runtime.FuncForPC(uintptr(f) - 1); fn != nil {
		file, line = fn.FileLine(uintptr(f) - 1)
	}
	// cut file at "github.com/"
	if idx := strings.Index(file, "github.com/"); idx >= 0 {
		file = file[idx+len("github.com/"):]
	}
	fmt.Fprintf(s, " [%s:%d]", file, line)
}
