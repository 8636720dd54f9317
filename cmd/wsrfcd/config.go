package main

import (
	"fmt"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/tzrikka/xdg"
)

const (
	configDirName  = "wsrfcd"
	configFileName = "config.toml"
)

// configFile returns the path to this binary's TOML config file,
// creating an empty one on first run so the TOML config source never
// errors on a missing file.
func configFile() altsrc.StringSourcer {
	path, err := xdg.CreateFile(xdg.ConfigHome, configDirName, configFileName)
	if err != nil {
		panic(fmt.Sprintf("wsrfcd: failed to create config file: %v", err))
	}
	return altsrc.StringSourcer(path)
}
