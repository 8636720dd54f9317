package websocket

import "errors"

// Frame-level protocol errors (RFC 6455 Section 7.4.1, status 1002
// unless noted). All of these are fatal to the connection: the parser
// stops at the first one it finds and the caller must close the
// transport.
var (
	// ErrReservedBits is returned when RSV1, RSV2 or RSV3 is set without
	// a negotiated extension (RFC 6455 Section 5.2). Checked before the
	// opcode and before the length, per the fixed tie-break order.
	ErrReservedBits = errors.New("websocket: reserved flag in frame")

	// ErrUnknownOpcode is returned when the 4-bit opcode is not one of
	// the six values RFC 6455 defines.
	ErrUnknownOpcode = errors.New("websocket: unknown opcode in frame")

	// ErrMaskingViolation is returned when the MASK bit disagrees with
	// what the connection side requires: servers require MASK=1 on
	// every inbound frame (RFC 6455 Section 5.1).
	ErrMaskingViolation = errors.New("websocket: masking violation")

	// ErrControlFragmented is returned when a control frame (Close,
	// Ping, Pong) has FIN=0. RFC 6455 Section 5.5 forbids fragmenting
	// control frames.
	ErrControlFragmented = errors.New("websocket: control frame must not be fragmented")

	// ErrControlTooLarge is returned when a control frame's payload
	// exceeds 125 bytes (RFC 6455 Section 5.5).
	ErrControlTooLarge = errors.New("websocket: control frame payload too large")

	// ErrLengthTopBitSet is returned when the 64-bit extended payload
	// length has its most significant bit set, which RFC 6455 Section
	// 5.2 forbids.
	ErrLengthTopBitSet = errors.New("websocket: 64-bit length has reserved top bit set")

	// ErrFrameTooLarge is returned when a frame's payload exceeds the
	// connection's configured implementation limit. Not an RFC
	// requirement; a denial-of-service guard.
	ErrFrameTooLarge = errors.New("websocket: frame payload exceeds limit")

	// ErrInvalidClosePayload is returned when a Close frame's payload
	// has length 1: too short to hold the 2-byte status code and not
	// empty, so it cannot be decoded (spec.md Section 4.2).
	ErrInvalidClosePayload = errors.New("websocket: close frame payload of length 1 is malformed")
)

// Handshake validation errors (RFC 6455 Section 4). Each except
// ErrHijackFailed maps to the HTTP status the validator table assigns
// it; ErrHijackFailed is returned after the 101 has been written. See
// (*UpgradeOptions) and Upgrade.
var (
	ErrInvalidMethod     = errors.New("websocket: handshake method must be GET")
	ErrMissingUpgrade    = errors.New("websocket: missing or invalid Upgrade header")
	ErrMissingConnection = errors.New("websocket: missing or invalid Connection header")
	ErrMissingSecKey     = errors.New("websocket: missing Sec-WebSocket-Key header")
	ErrInvalidVersion    = errors.New("websocket: unsupported Sec-WebSocket-Version")
	ErrOriginDenied      = errors.New("websocket: origin rejected")
	ErrNoProtocol        = errors.New("websocket: factory yielded no application protocol")
	ErrHijackFailed      = errors.New("websocket: underlying transport does not support hijacking")
)

// Connection runtime errors.
var (
	// ErrClosed is returned by SendFrame once the connection has
	// transitioned to CLOSING or CLOSED.
	ErrClosed = errors.New("websocket: connection closed")
)
