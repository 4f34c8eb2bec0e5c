package protocol

import "errors"

var (
	ErrMalformedFrame     = errors.New("protocol: malformed frame")
	ErrMalformedHandshake = errors.New("protocol: malformed handshake")
	ErrMissingRequestID   = errors.New("protocol: request_id required")
	ErrInvalidCellIndex   = errors.New("protocol: cell index must not be negative")
	ErrInvalidMaxLength   = errors.New("protocol: max_length must be positive")
	ErrEmptyCellType      = errors.New("protocol: cell_type required")
)
