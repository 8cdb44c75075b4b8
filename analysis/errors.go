package analysis

// ErrorKind distinguishes how a request failed.
type ErrorKind int

const (
	// ErrTransport covers network failures and non-2xx statuses.
	ErrTransport ErrorKind = iota
	// ErrParse covers a success status with an unparseable body. It is never
	// partially applied; the user sees it exactly like a transport failure.
	ErrParse
)

// RequestError is a failed call to the analysis or route service. Message is
// always ready for display: the server-provided error text when present,
// otherwise the generic per-endpoint fallback.
type RequestError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
