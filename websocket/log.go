package websocket

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// eventSink is the per-connection structured log destination (spec.md
// Section 9, design note: "a clean design injects a logger... per
// connection at construction time", answering the Open Question left by
// the original's process-wide log observer). Conn never writes to the
// global logger directly; every call carries the fields a reader needs
// to correlate a line with one connection.
type eventSink struct {
	logger zerolog.Logger
}

// newEventSink builds a sink scoped to one connection id. A nil Logger
// (the UpgradeOptions zero value) falls back to the package's
// global zerolog logger, so callers that don't care about logging
// configuration still get output.
func newEventSink(connID string, base *zerolog.Logger) *eventSink {
	l := log.Logger
	if base != nil {
		l = *base
	}
	return &eventSink{logger: l.With().Str("conn_id", connID).Logger()}
}

// closing logs the CLOSE-frame dispatch line required by spec.md
// Section 4.5: "Closing connection: '<reason>' (<code>)".
func (s *eventSink) closing(code uint16, reason string) {
	s.logger.Info().
		Uint16("close_code", code).
		Str("close_reason", reason).
		Msgf("Closing connection: '%s' (%d)", reason, code)
}

// parseError logs a fatal frame-parse error right before the
// connection's transport is closed.
func (s *eventSink) parseError(err error) {
	s.logger.Error().Err(err).Msg("websocket: parse error, closing connection")
}

// opened logs successful handshake completion.
func (s *eventSink) opened(remoteAddr string) {
	s.logger.Info().Str("remote_addr", remoteAddr).Msg("websocket: connection opened")
}

// lost logs final teardown, whatever triggered it.
func (s *eventSink) lost(err error) {
	ev := s.logger.Info()
	if err != nil && !IsCloseError(err) {
		ev = s.logger.Warn().Err(err)
	}
	ev.Msg("websocket: connection lost")
}
