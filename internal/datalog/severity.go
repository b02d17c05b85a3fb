package datalog

import "fmt"

// Severity classifies a record for console routing and threshold filtering.
type Severity int

const (
	SeverityUnknown   Severity = -1
	SeverityInfo      Severity = 0
	SeverityWarning   Severity = 1
	SeverityError     Severity = 2
	SeverityException Severity = 3
)

func (s Severity) String() string {
	switch s {
	case SeverityUnknown:
		return "UNKNOWN"
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityException:
		return "EXCEPTION"
	default:
		return fmt.Sprintf("SEVERITY(%d)", int(s))
	}
}

// Valid reports whether the severity is one the writer can dispatch on.
// SeverityUnknown is part of the vocabulary but is not dispatchable; it
// exists so that misuse surfaces as an EXCEPTION diagnostic instead of
// being silently dropped.
func (s Severity) Valid() bool {
	return s >= SeverityInfo && s <= SeverityException
}

// SeverityVocabulary lists every recognized severity with its numeric value.
func SeverityVocabulary() string {
	all := []Severity{SeverityUnknown, SeverityInfo, SeverityWarning, SeverityError, SeverityException}
	out := "["
	for i, s := range all {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s(%d)", s, int(s))
	}
	return out + "]"
}

// Record is a single classified line of collected data. Immutable once
// constructed.
type Record struct {
	Text     string
	Severity Severity
}
