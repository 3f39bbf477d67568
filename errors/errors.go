package errors

import "fmt"

var (
	ErrMissingToken = fmt.Errorf("authorization token is missing")
	ErrInvalidToken = fmt.Errorf("invalid or expired token")
	ErrWorkerPanic  = fmt.Errorf("worker panic")
	ErrEmptyWords   = fmt.Errorf("no masked words have been found")
	ErrSinkClosed   = fmt.Errorf("connection sink is closed")
)
