package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrObjectNotFound      = errors.New("object not found in storage")
	ErrObjectFetchFailed   = errors.New("object fetch failed")
	ErrUnsupportedDocument = errors.New("unsupported or corrupt document")
	ErrInsufficientText    = errors.New("no text could be extracted")
	ErrConfigUnavailable   = errors.New("extraction config unavailable")
	ErrConfigMalformed     = errors.New("extraction config malformed")
	ErrGatewayUnavailable  = errors.New("persistence gateway unavailable")
)
