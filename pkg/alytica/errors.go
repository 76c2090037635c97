package alytica

import "errors"

var (
	// ErrMissingClientID indicates New was called without a client id.
	ErrMissingClientID = errors.New("client id is required")

	// ErrInvalidAPIURL indicates the configured API URL could not be parsed.
	ErrInvalidAPIURL = errors.New("invalid api url")

	// ErrInvalidSetting indicates a config key held a value of the wrong type.
	ErrInvalidSetting = errors.New("invalid setting")

	// ErrUnknownEventType indicates an envelope carried an unrecognized type.
	ErrUnknownEventType = errors.New("unknown event type")
)
