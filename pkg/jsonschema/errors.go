package jsonschema

import (
	"fmt"
	"strings"
)

// DecodeError reports a malformed schema node together with its JSON Pointer.
type DecodeError struct {
	Pointer string
	Line    int
	Message string
}

func (e DecodeError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "invalid schema"
	}
	switch {
	case e.Pointer == "":
		return "jsonschema: " + msg
	case e.Line > 0:
		return fmt.Sprintf("jsonschema: %s (%s, line %d)", msg, e.Pointer, e.Line)
	default:
		return fmt.Sprintf("jsonschema: %s (%s)", msg, e.Pointer)
	}
}

func decodeErrorf(pointer string, line int, format string, args ...any) error {
	return DecodeError{Pointer: pointer, Line: line, Message: fmt.Sprintf(format, args...)}
}
