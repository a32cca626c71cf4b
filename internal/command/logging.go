package command

import (
	"github.com/urfave/cli"

	"gs-streamer/internal/log"
)

var logger = log.New("gs-streamer")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
