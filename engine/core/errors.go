package core

import (
	"github.com/pkg/errors"
)

var (
	ErrListenerRegistered = errors.New("listener already registered for event code")
	ErrListenerNotFound   = errors.New("listener not registered for event code")
	ErrEventQueueFull     = errors.New("event queue is full")
	ErrUnknown            = errors.New("unknown")
)
