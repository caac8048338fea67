package contract

import "errors"

var (
	ErrDuplicateTool = errors.New("tool name already registered")
	ErrUnknownTool   = errors.New("unknown tool")
	ErrPlanning      = errors.New("planning failed")
	ErrSummarization = errors.New("summarization failed")
	ErrGateway       = errors.New("model gateway failed")
	ErrValidation    = errors.New("validation failed")
)
