package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/snippets/internal/ctl"
	"github.com/dmitrijs2005/snippets/internal/logging"
	"github.com/dmitrijs2005/snippets/internal/server/config"
	"golang.org/x/term"
)

func main() {
	ctx := context.Background()
	args := os.Args[1:]

	cfg, err := config.Load(args)
	if err != nil {
		fail(fmt.Errorf("config: %w", err))
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		fail(fmt.Errorf("config: %w", err))
	}
	logger, err := logging.New(os.Stderr, cfg.LogFormat, level)
	if err != nil {
		fail(fmt.Errorf("config: %w", err))
	}

	fd := int(os.Stdin.Fd())
	stdio := ctl.Stdio{
		In:          os.Stdin,
		Out:         os.Stdout,
		Err:         os.Stderr,
		FD:          fd,
		Interactive: term.IsTerminal(fd),
	}
	command := config.Positional(args)

	// usage needs no database
	if len(command) == 0 || command[0] == "help" {
		if err := ctl.NewApp(nil, nil, stdio).Run(ctx, command); err != nil {
			fail(err)
		}
		return
	}

	app, err := ctl.Open(ctx, cfg, logger, stdio)
	if err != nil {
		fail(err)
	}

	err = app.Run(ctx, command)
	if cerr := app.Close(); cerr != nil {
		logger.Error(ctx, "closing database", "error", cerr)
	}
	if err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "snippetsctl:", err)
	os.Exit(1)
}
