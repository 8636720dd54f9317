// Command wsrfcd runs a standalone RFC 6455 WebSocket server: every
// client connecting to --addr is upgraded and joined to a broadcast
// Hub, so any Text or Binary frame it sends is relayed to every
// connected client, the sender included.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wsrfc/wsrfc/websocket"
)

func main() {
	bi, _ := debug.ReadBuildInfo()
	cfgPath := configFile()

	cmd := &cli.Command{
		Name:    "wsrfcd",
		Usage:   "RFC 6455 WebSocket server with broadcast fan-out",
		Version: bi.Main.Version,
		Flags:   flags(cfgPath),
		Action:  run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "wsrfcd: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	initLog(cmd.Bool("pretty-log"))

	hub := websocket.NewHub()
	defer hub.Close()

	subprotocols := cmd.StringSlice("subprotocols")

	opts := &websocket.UpgradeOptions{
		Subprotocols:    subprotocols,
		ReadBufferSize:  int(cmd.Int("read-buffer-size")),
		WriteBufferSize: int(cmd.Int("write-buffer-size")),
		Logger:          &log.Logger,
		Factory: func(r *http.Request) websocket.Application {
			return &broadcastApp{hub: hub, remoteAddr: r.RemoteAddr}
		},
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", &websocket.Resource{Options: opts})

	addr := cmd.String("addr")
	log.Info().Str("addr", addr).Msg("wsrfcd: listening")
	return http.ListenAndServe(addr, mux)
}

// initLog configures the package-wide zerolog logger, following the
// teacher corpus's pretty-vs-JSON console switch.
func initLog(pretty bool) {
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// broadcastApp joins every connection to the shared Hub and relays
// inbound data frames to it verbatim.
type broadcastApp struct {
	hub        *websocket.Hub
	remoteAddr string
	conn       *websocket.Conn
}

func (b *broadcastApp) ConnectionMade(conn *websocket.Conn) {
	b.conn = conn
	b.hub.Register(conn)
	log.Info().Str("remote_addr", b.remoteAddr).Msg("wsrfcd: client joined")
}

func (b *broadcastApp) FrameReceived(opcode websocket.Opcode, payload []byte, fin bool) {
	if opcode == websocket.OpText {
		b.hub.BroadcastText(string(payload))
		return
	}
	b.hub.Broadcast(payload)
}

func (b *broadcastApp) ConnectionLost(err error) {
	b.hub.Unregister(b.conn)
	log.Info().Str("remote_addr", b.remoteAddr).Msg("wsrfcd: client left")
}
