package spotify

import (
	"fmt"
)

// AcquisitionError means the client-credentials exchange itself failed:
// auth endpoint unreachable, non-2xx status or a body without access_token.
// It is never cached, the next call retries the exchange from scratch.
type AcquisitionError struct {
	Status int // upstream status code, 0 for network failures
	Detail string
	Err    error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("catalog credential acquisition failed: status=%d detail=%q err=%v", e.Status, e.Detail, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// AuthError means the catalog returned 401 even after one forced credential
// refresh. Surfaced to users as "service temporarily unavailable".
type AuthError struct {
	Endpoint string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("catalog rejected credential twice: endpoint=%s", e.Endpoint)
}

// RequestError is any upstream 4xx/5xx other than 401. Not retried.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("catalog request failed: status=%d body=%q", e.Status, e.Body)
}

// UnavailableError is a network level failure reaching the catalog. Not retried,
// the caller decides whether to prompt a retry.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("catalog unreachable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }
