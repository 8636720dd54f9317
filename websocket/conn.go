package websocket

import (
	"bufio"
	"errors"
	"io"
	"net"
	"sync"
	"time"
)

// writeTimeout bounds every outbound write, so a stalled or hostile
// peer that never reads can't block the goroutine trying to send to it
// forever — only that write times out, the same deadline-per-write
// pattern used to guard a fan-out write loop against a wedged client.
const writeTimeout = 2 * time.Second

// connState is the connection protocol's state machine (spec.md
// Section 4.5): OPEN on handshake completion, CLOSING while the close
// handshake is in flight, CLOSED once the transport is gone.
type connState int32

const (
	stateOpen connState = iota
	stateClosing
	stateClosed
)

// Conn owns one hijacked transport and drives it with a single
// event-loop goroutine (spec.md Section 5): inbound bytes are fed to the
// parse buffer and decoded frames are dispatched synchronously, so no
// frame handler is ever re-entered for the same connection. Outbound
// writes are serialized against that same goroutine with writeMu so the
// application's SendFrame calls never interleave a frame's bytes.
type Conn struct {
	id        string
	transport net.Conn
	app       Application
	sink      *eventSink

	parser *parseBuffer
	writer *bufio.Writer

	writeMu sync.Mutex

	stateMu sync.RWMutex
	state   connState

	readBufferSize int
}

// newConn constructs a connection bound to an already-hijacked
// transport. It does not start the read loop; callers (Upgrade) do that
// by running serve, which notifies the application protocol
// (ConnectionMade) before its first read. id must match the
// identifier sink was scoped to (see newEventSink).
func newConn(id string, transport net.Conn, app Application, sink *eventSink, readBufferSize, writeBufferSize int) *Conn {
	return &Conn{
		id:             id,
		transport:      transport,
		app:            app,
		sink:           sink,
		parser:         newParseBuffer(true, defaultMaxFramePayload),
		writer:         bufio.NewWriterSize(transport, writeBufferSize),
		readBufferSize: readBufferSize,
	}
}

// ID returns the connection's opaque identifier, used only for log
// correlation (spec.md Section 3, ADD) — it is never sent on the wire.
func (c *Conn) ID() string { return c.id }

func (c *Conn) currentState() connState {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

func (c *Conn) setState(s connState) {
	c.stateMu.Lock()
	c.state = s
	c.stateMu.Unlock()
}

// serve is the connection's event-loop task. It blocks until the
// transport closes or a fatal parse error occurs, then notifies the
// application and returns. Upgrade runs this in its own goroutine.
func (c *Conn) serve() {
	c.app.ConnectionMade(c)

	buf := make([]byte, c.readBufferSize)
	var lostErr error

	for {
		n, err := c.transport.Read(buf)
		if n > 0 {
			c.parser.Feed(buf[:n])
			if dispatchErr := c.drainFrames(); dispatchErr != nil {
				lostErr = dispatchErr
				break
			}
			if c.currentState() != stateOpen {
				break
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				lostErr = err
			}
			break
		}
	}

	if c.currentState() != stateClosed {
		c.setState(stateClosed)
		_ = c.transport.Close()
	}

	c.sink.lost(lostErr)
	c.app.ConnectionLost(lostErr)
}

// drainFrames decodes and dispatches every complete frame currently
// sitting in the parse buffer. It stops as soon as the buffer yields an
// incomplete prefix (spec.md Section 4.2's streaming contract) or the
// connection leaves OPEN (a CLOSE frame was dispatched mid-batch).
func (c *Conn) drainFrames() error {
	for {
		f, err := c.parser.Next()
		if err != nil {
			c.sink.parseError(err)
			c.closeTransport()
			return err
		}
		if f == nil {
			return nil
		}

		if err := c.dispatch(f); err != nil {
			return err
		}
		if c.currentState() != stateOpen {
			return nil
		}
	}
}

// dispatch handles one decoded frame per spec.md Section 4.5: PING is
// answered with a PONG before any later frame in the same batch reaches
// the application (the ordering guarantee of spec.md Section 5); PONG is
// discarded; CLOSE transitions the connection and tears down the
// transport; data/continuation frames go straight to the application.
func (c *Conn) dispatch(f *Frame) error {
	switch f.Opcode {
	case OpPing:
		return c.SendFrame(OpPong, f.Payload, true)
	case OpPong:
		return nil
	case OpClose:
		c.handleClose(f)
		return nil
	default:
		c.app.FrameReceived(f.Opcode, f.Payload, f.Fin)
		return nil
	}
}

func (c *Conn) handleClose(f *Frame) {
	c.sink.closing(f.CloseCode, f.CloseReason)
	c.setState(stateClosing)
	c.closeTransport()
	c.setState(stateClosed)
}

func (c *Conn) closeTransport() {
	c.writeMu.Lock()
	_ = c.transport.Close()
	c.writeMu.Unlock()
}

// SendFrame writes (opcode, payload, fin) to the transport unmasked —
// servers never mask outbound frames (spec.md Section 1, Non-goals).
// Safe for concurrent use; writes are serialized and buffered through
// c.writer, flushed before this call returns so every SendFrame leaves
// the frame fully on the wire.
func (c *Conn) SendFrame(opcode Opcode, payload []byte, fin bool) error {
	if c.currentState() != stateOpen {
		return ErrClosed
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.transport.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	if _, err := c.writer.Write(BuildFrame(opcode, payload, fin, nil)); err != nil {
		return err
	}
	return c.writer.Flush()
}

// Close sends a Close frame with CloseNormalClosure and no reason, then
// tears down the transport. Idempotent.
func (c *Conn) Close() error {
	return c.CloseWithCode(CloseNormalClosure, "")
}

// CloseWithCode sends a Close frame carrying code and reason, then
// closes the transport. Safe to call more than once; only the first
// call has effect.
func (c *Conn) CloseWithCode(code CloseCode, reason string) error {
	if c.currentState() != stateOpen {
		return nil
	}

	err := c.SendFrame(OpClose, EncodeClose(uint16(code), reason), true)
	c.setState(stateClosing)
	c.closeTransport()
	c.setState(stateClosed)
	return err
}

// RemoteAddr returns the transport's remote address, for logging.
func (c *Conn) RemoteAddr() net.Addr {
	return c.transport.RemoteAddr()
}
