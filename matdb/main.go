// Package main is the matdb command: it loads SCM material property
// databases into a typed, queryable catalog.
//
// License
//
// Governed by a 3-Clause BSD license. License file may be found in the root
// folder of this module.
//
// Copyright © 2025 Norbert Pillmayer <norbert@pillmayer.com>
//
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/cfdkit/matdb"
	"github.com/cfdkit/matdb/matdb/cli"
)

func main() {
	var stop context.CancelFunc
	matdb.SignalContext, stop = signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli.Execute()
}
