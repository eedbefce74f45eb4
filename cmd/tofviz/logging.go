package main

import (
	"github.com/urfave/cli"
	"github.com/vearutop/tofviz/internal/log"
)

var logger = log.New("tofviz")

func setupLogging(ctx *cli.Context) error {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
	return nil
}
