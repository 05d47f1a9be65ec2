package name

import "fmt"

// NameError is raised by out-of-range Name indexing or a malformed URI.
type NameError struct {
	Msg string
}

func (e NameError) Error() string {
	return fmt.Sprintf("name error: %s", e.Msg)
}

// RegexError is raised by a malformed Name-Regex pattern, an unknown
// back-reference, or a malformed expand template.
type RegexError struct {
	Msg string
}

func (e RegexError) Error() string {
	return fmt.Sprintf("regex error: %s", e.Msg)
}
