package websocket

import "net/http"

// Application is the opaque collaborator that consumes decoded frames
// (spec.md Section 1/6). The connection protocol calls ConnectionMade
// once, right after the handshake completes and before any frame is
// dispatched; FrameReceived for every inbound data or continuation
// frame (control frames are handled internally and never reach here);
// and ConnectionLost exactly once when the transport goes away.
//
// Implementations use the *Conn passed to ConnectionMade to call
// SendFrame for outbound traffic.
type Application interface {
	// ConnectionMade is called once, after the handshake, before any
	// frame is delivered. conn is the connection's outbound handle.
	ConnectionMade(conn *Conn)

	// FrameReceived is called for every inbound Text, Binary or
	// Continuation frame, in wire order (spec.md Section 5).
	FrameReceived(opcode Opcode, payload []byte, fin bool)

	// ConnectionLost is called once the transport is gone, whether
	// because of an orderly Close exchange or a fatal parse error.
	ConnectionLost(reason error)
}

// Factory builds the Application instance for an incoming handshake
// request. It is invoked synchronously, before the 101 response is
// written, so it must be safe to call from whatever goroutine the HTTP
// server's handler runs on. Returning nil signals that no protocol is
// available for this request; the handshake then fails with 502
// (spec.md Section 4.4).
type Factory func(r *http.Request) Application

// ProtocolLookup negotiates a subprotocol when the client sent
// Sec-WebSocket-Protocol (spec.md Section 4.4). It is only invoked when
// that header is present; candidates holds the client's comma-separated
// list, already split and trimmed. It returns the chosen Application
// (nil to fail the handshake with 502) and the subprotocol name to echo
// back in Sec-WebSocket-Protocol.
type ProtocolLookup func(candidates []string, r *http.Request) (app Application, chosen string)
