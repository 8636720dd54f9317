package main

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

const (
	defaultAddr            = ":8080"
	defaultReadBufferSize  = 4096
	defaultWriteBufferSize = 4096
)

// flags returns the CLI surface. Every flag except --config has an
// environment variable and TOML config-file fallback, following the
// config-source chain pattern this binary's ambient stack is grounded
// on. The TOML fallbacks always read configFilePath; the value given to
// --config is not read by anything.
func flags(configFilePath altsrc.StringSourcer) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "path of the TOML config file; settings are always read from the XDG config location, whatever this is set to",
			Value: string(configFilePath),
		},
		&cli.StringFlag{
			Name:  "addr",
			Usage: "address to listen on for the WebSocket handshake endpoint",
			Value: defaultAddr,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("WSRFCD_ADDR"),
				toml.TOML("server.addr", configFilePath),
			),
		},
		&cli.IntFlag{
			Name:  "read-buffer-size",
			Usage: "per-connection read buffer size, in bytes",
			Value: defaultReadBufferSize,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("WSRFCD_READ_BUFFER_SIZE"),
				toml.TOML("server.read_buffer_size", configFilePath),
			),
		},
		&cli.IntFlag{
			Name:  "write-buffer-size",
			Usage: "per-connection write buffer size, in bytes",
			Value: defaultWriteBufferSize,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("WSRFCD_WRITE_BUFFER_SIZE"),
				toml.TOML("server.write_buffer_size", configFilePath),
			),
		},
		&cli.StringSliceFlag{
			Name:  "subprotocols",
			Usage: "subprotocols this server advertises, in preference order",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("WSRFCD_SUBPROTOCOLS"),
				toml.TOML("server.subprotocols", configFilePath),
			),
		},
		&cli.BoolFlag{
			Name:  "pretty-log",
			Usage: "human-readable console logging, instead of JSON",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("WSRFCD_PRETTY_LOG"),
				toml.TOML("log.pretty", configFilePath),
			),
		},
	}
}
