package caller

import "errors"

var (
	ErrRelayURLRequired = errors.New("caller: relay url required")
	ErrClientClosed     = errors.New("caller: client closed")
	ErrConnectFailed    = errors.New("caller: connect failed")
	ErrConnectionLost   = errors.New("caller: connection lost")
	ErrRequestTimeout   = errors.New("caller: request timeout")
)
