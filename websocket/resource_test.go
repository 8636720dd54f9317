package websocket

import (
	"net/http"
	"testing"
)

// TestResource_PutChildPanics mirrors Twisted's WebSocketsResourceTest
// (test_putChild): a WebSocket handshake resource is a leaf, so
// attaching a child must panic rather than silently accepting routes
// that could never be reached through a hijacked connection.
func TestResource_PutChildPanics(t *testing.T) {
	res := &Resource{}

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("PutChild did not panic")
		}
	}()

	res.PutChild("child", http.NotFoundHandler())
}

// TestResource_GetChildWithDefaultPanics mirrors Twisted's
// WebSocketsResourceTest (test_getChildWithDefault): the resource
// exposes no child routing tree to query either.
func TestResource_GetChildWithDefaultPanics(t *testing.T) {
	res := &Resource{}

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("GetChildWithDefault did not panic")
		}
	}()

	res.GetChildWithDefault("child", http.NotFoundHandler())
}
