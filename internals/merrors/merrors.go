// Package merrors holds error types that are shared between packages
package merrors

// CliError is an error that might get displayed to the user
type CliError struct {
	Text        string
	Code        string
	Suggestions []string
	Help        string
}

func (e *CliError) Error() string {
	return e.Text
}
