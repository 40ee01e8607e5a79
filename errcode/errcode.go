// Package errcode defines stable error codes shared across the module,
// plus a small wrapper carrying the operation and context that produced
// them.
package errcode

import "errors"

// Code is a machine-readable error kind. Codes are stable strings so
// they can cross logs and wire boundaries unchanged.
type Code string

const (
	OK                   Code = "ok"
	Error                Code = "error"
	Busy                 Code = "busy"
	Unsupported          Code = "unsupported"
	InvalidConfiguration Code = "invalid_configuration"
	IndexOutOfRange      Code = "index_out_of_range"
	UnsupportedFormat    Code = "unsupported_format"
	PinInUse             Code = "pin_in_use"
)

func (c Code) Error() string { return string(c) }

// E wraps a Code with the failing operation and optional detail.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *E) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.C
}

func (e *E) Code() Code { return e.C }

// Of extracts the Code from err, unwrapping as needed. A nil error is
// OK; an error with no embedded Code is Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	var e *E
	if errors.As(err, &e) {
		return e.C
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return Error
}
