package plparser

import "fmt"

// Result is the outcome of resolving one URI.
type Result int

const (
	// Unhandled means the resource is not a playlist this package understands.
	Unhandled Result = iota
	// Error means the resource was recognized but could not be parsed.
	Error
	// Success means the resource was parsed and its entries were emitted.
	Success
	// Ignored means the resource was deliberately skipped.
	Ignored
)

// String implements fmt.Stringer.
func (r Result) String() string {
	switch r {
	case Unhandled:
		return "unhandled"
	case Error:
		return "error"
	case Success:
		return "success"
	case Ignored:
		return "ignored"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// MarshalText renders the result name for JSON and TOML.
func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses a name produced by MarshalText.
func (r *Result) UnmarshalText(text []byte) error {
	parsed, err := ParseResult(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseResult is the inverse of Result.String.
func ParseResult(s string) (Result, error) {
	switch s {
	case "unhandled":
		return Unhandled, nil
	case "error":
		return Error, nil
	case "success":
		return Success, nil
	case "ignored":
		return Ignored, nil
	}
	return Unhandled, fmt.Errorf("unknown result %q", s)
}
