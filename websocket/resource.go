package websocket

import "net/http"

// Resource adapts Upgrade to http.Handler for callers that mount it
// directly into a mux. It exists only as a handshake endpoint: per
// spec.md Section 4.4 it MUST refuse to act as a generic HTTP resource,
// so PutChild and GetChildWithDefault — the hooks an http.Handler in
// this codebase's tree would normally expose for building a child
// routing tree — panic instead of silently accepting children that
// would never be reachable through a hijacked connection.
type Resource struct {
	Options *UpgradeOptions
}

// ServeHTTP runs the opening handshake. Upgrade failures write their
// own response; the error Upgrade returns is discarded and not logged.
// Success hands the connection off to Options.Factory and returns.
func (res *Resource) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, _ = Upgrade(w, r, res.Options)
}

// PutChild always panics: a WebSocket handshake resource is a leaf,
// never a routing node.
func (res *Resource) PutChild(string, http.Handler) {
	panic("websocket: Resource does not support PutChild")
}

// GetChildWithDefault always panics, mirroring PutChild.
func (res *Resource) GetChildWithDefault(string, http.Handler) http.Handler {
	panic("websocket: Resource does not support GetChildWithDefault")
}
