package domain

import "errors"

// ErrInvalidTarget is returned when a value that is not a container is given to be wrapped.
var ErrInvalidTarget = errors.New("proxytree can only be used for wrapping containers")

// ErrVariableNotFound is returned when a variable name is not bound.
var ErrVariableNotFound = errors.New("variable not found")

// ErrAlreadyBound is returned when a variable name is bound twice.
var ErrAlreadyBound = errors.New("variable already bound")

// ErrUnknownMethod is returned when a synchronization method cannot be parsed.
var ErrUnknownMethod = errors.New("unknown sync method")
