package database

import "errors"

var (
	ErrBlankQuery     = errors.New("blank query")
	ErrMissingConfig  = errors.New("missing config")
	ErrInvalidOptions = errors.New("invalid options")
	ErrMissingFilter  = errors.New("missing where filter")
	ErrMissingColumns = errors.New("missing columns")
)

// ConnectFailure is the only error kind returned by the service and its
// drivers. Rows not being found is never a ConnectFailure.
type ConnectFailure struct {
	Message string
	Err     error
}

func (err ConnectFailure) Error() string {
	if err.Err == nil {
		return err.Message
	}

	if err.Message == "" {
		return err.Err.Error()
	}

	return err.Message + ": " + err.Err.Error()
}

func (err ConnectFailure) Unwrap() error {
	return err.Err
}

func connectFailure(message string, err error) error {
	var existing ConnectFailure
	if errors.As(err, &existing) {
		return err
	}

	return ConnectFailure{
		Message: message,
		Err:     err,
	}
}
