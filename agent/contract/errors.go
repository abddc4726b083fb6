package contract

import "errors"

var (
	ErrModelInvoke      = errors.New("model invoke failed")
	ErrSchemaViolation  = errors.New("model response violates schema")
	ErrPromptMissing    = errors.New("required prompt is missing")
	ErrValidation       = errors.New("validation failed")
	ErrStoreUnavailable = errors.New("insurance records store unavailable")
	ErrMaxSteps         = errors.New("agent exceeded max steps")
)
