package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrProvisioningFailed wraps every failure of a provisioning run. Callers
	// map it to a non-zero exit status without inspecting the cause.
	ErrProvisioningFailed = errors.New("provisioning failed")
)
