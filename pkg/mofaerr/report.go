package mofaerr

import (
	"fmt"
	"runtime"
	"strings"
)

// Frame is one captured call site in a Report's causal chain.
type Frame struct {
	Function string
	File     string
	Line     int
}

func (f Frame) String() string {
	return fmt.Sprintf("%s\n\t%s:%d", f.Function, f.File, f.Line)
}

// Report is the internal-boundary result shape: it carries the same
// typed Error as the public Result, plus the chain of frames captured
// as the error crossed boundaries. The first conversion from a plain
// error records the caller's location as the first frame; each
// subsequent WithFrame call appends one more.
type Report struct {
	Err    *Error
	Frames []Frame
}

func (r *Report) Error() string {
	var b strings.Builder
	b.WriteString(r.Err.Error())
	for _, f := range r.Frames {
		b.WriteString("\n  at ")
		b.WriteString(f.String())
	}
	return b.String()
}

func (r *Report) Unwrap() error { return r.Err }

func callerFrame(skip int) Frame {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Frame{Function: "unknown"}
	}
	fn := runtime.FuncForPC(pc)
	name := "unknown"
	if fn != nil {
		name = fn.Name()
	}
	return Frame{Function: name, File: file, Line: line}
}

// ToReport converts a plain error into a *Report, recording the
// current source location as the first frame. If err is already a
// *mofaerr.Error it is reused as-is; otherwise it is wrapped as Other.
func ToReport(err error) *Report {
	if err == nil {
		return nil
	}
	var e *Error
	if ae, ok := err.(*Error); ok {
		e = ae
	} else {
		e = &Error{Kind: Other, Message: err.Error(), Err: err}
	}
	return &Report{Err: e, Frames: []Frame{callerFrame(1)}}
}

// WithFrame appends the current call site to the report's chain and
// returns the same report for chaining.
func (r *Report) WithFrame() *Report {
	if r == nil {
		return nil
	}
	r.Frames = append(r.Frames, callerFrame(1))
	return r
}
