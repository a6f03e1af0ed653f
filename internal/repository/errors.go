package repository

import "errors"

var (
	// ErrMalformedResponse indicates a body that is not the expected JSON
	ErrMalformedResponse = errors.New("malformed backend response")

	// ErrUnexpectedStatus indicates a non-2xx reply without a usable payload
	ErrUnexpectedStatus = errors.New("unexpected backend status")
)
