package websocket

import (
	"net"
	"testing"
	"time"
)

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	app := newRecordingApp()
	conn, client := newTestConn(app)
	defer client.Close()

	hub.Register(conn)
	waitClientCount(t, hub, 1)

	hub.Unregister(conn)
	waitClientCount(t, hub, 0)
}

func TestHub_BroadcastDeliversToAllClients(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	const n = 3
	clients := make([]net.Conn, n)
	for i := 0; i < n; i++ {
		conn, client := newTestConn(newRecordingApp())
		clients[i] = client
		hub.Register(conn)
	}
	waitClientCount(t, hub, n)

	hub.BroadcastText("hello")

	for _, client := range clients {
		client.SetReadDeadline(time.Now().Add(time.Second))
		buf := make([]byte, 64)
		nRead, err := client.Read(buf)
		if err != nil {
			t.Fatal(err)
		}
		f, _, err := parseFrame(buf[:nRead], false, 0)
		if err != nil || f.Opcode != OpText || string(f.Payload) != "hello" {
			t.Fatalf("got %v err=%v", f, err)
		}
	}
}

func TestHub_BroadcastJSON(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	conn, client := newTestConn(newRecordingApp())
	hub.Register(conn)
	waitClientCount(t, hub, 1)

	if err := hub.BroadcastJSON(map[string]string{"type": "notice"}); err != nil {
		t.Fatal(err)
	}

	client.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 128)
	n, err := client.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	f, _, err := parseFrame(buf[:n], false, 0)
	if err != nil || f.Opcode != OpText {
		t.Fatalf("got %v err=%v", f, err)
	}
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub := NewHub()

	conn, client := newTestConn(newRecordingApp())
	defer client.Close()
	hub.Register(conn)
	waitClientCount(t, hub, 1)

	if err := hub.Close(); err != nil {
		t.Fatal(err)
	}
	if conn.currentState() != stateClosed {
		t.Fatalf("state = %v, want stateClosed", conn.currentState())
	}
}

func TestHub_SlowClientDroppedUnderBackpressure(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	conn, client := newTestConn(newRecordingApp())
	defer client.Close()
	hub.Register(conn)
	waitClientCount(t, hub, 1)

	// Never read from client: its outbox fills up (one message may be
	// stuck mid-write in deliver's blocking SendFrame) and Broadcast
	// must disconnect it instead of blocking forever on a stalled
	// reader.
	for i := 0; i < hubOutboxSize*2+5; i++ {
		hub.BroadcastText("flood")
	}

	waitClientCount(t, hub, 0)
}

func waitClientCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	// Generous relative to the common case: dropping a slow client runs
	// its close handshake through conn.go's writeTimeout, so a test that
	// triggers backpressure can legitimately take a couple of seconds.
	deadline := time.After(6 * time.Second)
	for {
		if hub.ClientCount() == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("ClientCount() = %d, want %d", hub.ClientCount(), want)
		case <-time.After(time.Millisecond):
		}
	}
}
