package models

import "errors"

// Fatal error classes. Stages wrap these with context so callers can use errors.Is.
var (
	ErrFetch       = errors.New("fetch error")
	ErrStructure   = errors.New("unexpected page structure")
	ErrParse       = errors.New("parse error")
	ErrPersistence = errors.New("persistence error")
	ErrConfig      = errors.New("invalid config")
)
