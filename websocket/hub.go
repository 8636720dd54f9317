package websocket

import (
	"encoding/json/v2"
	"sync"
)

// hubOutboxSize bounds how many pending messages a slow client is
// allowed to accumulate before Broadcast gives up on it. Sized well
// above a burst of a few chat-sized messages so a client isn't dropped
// over an ordinary scheduling hiccup, but small enough that a stalled
// reader can't pin down unbounded memory.
const hubOutboxSize = 32

// Hub fans messages out to a set of connections (spec.md Section 1,
// ADD: the opening handshake and connection protocol are the RFC, but a
// server needs something to broadcast to more than one client).
//
// Each registered client gets its own bounded outbox and a single
// goroutine draining it into SendFrame, so per-client delivery stays in
// broadcast order the same way a single connection's own writes are
// ordered by conn.go's writeMu — no interleaving, just one writer
// instead of many. A client whose outbox is full when Broadcast tries
// to enqueue is disconnected rather than blocking every other client or
// spawning another unbounded goroutine per message (the failure mode of
// fire-and-forget fan-out): backpressure is enforced by dropping the
// slow reader, not by buffering without limit or stalling the sender.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Conn]*clientOutbox
	closed  bool
	wg      sync.WaitGroup
}

type clientOutbox struct {
	queue chan hubMessage
	done  chan struct{}
}

type hubMessage struct {
	opcode  Opcode
	payload []byte
}

// NewHub returns a Hub ready to accept Register calls immediately;
// there is no separate event loop to start.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Conn]*clientOutbox)}
}

// Register adds client to the broadcast set and starts its delivery
// goroutine. A no-op once Close has been called or if client is already
// registered.
func (h *Hub) Register(client *Conn) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	if _, ok := h.clients[client]; ok {
		h.mu.Unlock()
		return
	}
	ob := &clientOutbox{
		queue: make(chan hubMessage, hubOutboxSize),
		done:  make(chan struct{}),
	}
	h.clients[client] = ob
	h.wg.Add(1)
	h.mu.Unlock()

	go h.deliver(client, ob)
}

// deliver drains ob.queue into client.SendFrame, in order, until ob.done
// is closed (by Unregister or Close) or a write fails. A write failure
// unregisters the client itself rather than leaving a dead goroutine
// spinning on a connection nobody will ever drain again.
func (h *Hub) deliver(client *Conn, ob *clientOutbox) {
	defer h.wg.Done()

	for {
		select {
		case msg := <-ob.queue:
			if err := client.SendFrame(msg.opcode, msg.payload, true); err != nil {
				h.Unregister(client)
				return
			}
		case <-ob.done:
			return
		}
	}
}

// Unregister removes client, stops its delivery goroutine, and closes
// its connection. Safe to call more than once for the same client.
func (h *Hub) Unregister(client *Conn) {
	h.mu.Lock()
	ob, ok := h.clients[client]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	h.mu.Unlock()

	close(ob.done)
	_ = client.Close()
}

// Broadcast queues payload as a Binary frame for every registered
// client. Non-blocking: a client whose outbox is already full is
// unregistered instead of being waited on.
func (h *Hub) Broadcast(payload []byte) {
	h.fanout(hubMessage{opcode: OpBinary, payload: payload})
}

// BroadcastText queues text as a Text frame for every registered client.
func (h *Hub) BroadcastText(text string) {
	h.fanout(hubMessage{opcode: OpText, payload: []byte(text)})
}

// BroadcastJSON marshals v and queues it as a Text frame.
func (h *Hub) BroadcastJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.fanout(hubMessage{opcode: OpText, payload: data})
	return nil
}

// fanout offers msg to every client's outbox without blocking on any of
// them, then unregisters whichever clients couldn't take it. The slow
// list is collected under the read lock and acted on after it's
// released, since Unregister needs the write lock.
func (h *Hub) fanout(msg hubMessage) {
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	var slow []*Conn
	for client, ob := range h.clients {
		select {
		case ob.queue <- msg:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.Unregister(client)
	}
}

// ClientCount returns the number of currently registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close unregisters and disconnects every client, and waits for every
// delivery goroutine to exit. Safe to call more than once.
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	clients := make(map[*Conn]*clientOutbox, len(h.clients))
	for c, ob := range h.clients {
		clients[c] = ob
	}
	h.clients = make(map[*Conn]*clientOutbox)
	h.mu.Unlock()

	for _, ob := range clients {
		close(ob.done)
	}
	h.wg.Wait()

	for client := range clients {
		_ = client.Close()
	}

	return nil
}
