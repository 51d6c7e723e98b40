// Package ctl implements snippetsctl, the operator command line for the
// snippets service. It shares configuration with the server and talks to
// the database directly.
package ctl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/snippets/internal/server/models"
	"github.com/dmitrijs2005/snippets/internal/server/services"
)

const usage = `usage: snippetsctl [flags] <command>

commands:
  migrate            apply database migrations
  register <user>    create an account
  passwd <user>      change an account password
  token <user>       log in and print a bearer token`

var (
	ErrUsage            = errors.New("invalid usage")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// Directory is the subset of the identity directory the commands need.
type Directory interface {
	Register(ctx context.Context, username, plaintext string) (*models.Account, error)
	ChangePassword(ctx context.Context, username, oldPlaintext, newPlaintext string) error
	Login(ctx context.Context, username, plaintext string) (*services.LoginResult, error)
}

// MigrateFunc applies pending schema migrations.
type MigrateFunc func(ctx context.Context) error

// Stdio describes the process streams. FD is the descriptor passwords are
// read from when Interactive is set.
type Stdio struct {
	In          io.Reader
	Out         io.Writer
	Err         io.Writer
	FD          int
	Interactive bool
}

type App struct {
	users   Directory
	migrate MigrateFunc
	stdio   Stdio
	reader  *bufio.Reader
	closer  io.Closer
}

func NewApp(users Directory, migrate MigrateFunc, stdio Stdio) *App {
	return &App{
		users:   users,
		migrate: migrate,
		stdio:   stdio,
		reader:  bufio.NewReader(stdio.In),
	}
}

// Close releases the database handle, if the App owns one.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.stdio.Err, usage)
		return fmt.Errorf("%w: no command given", ErrUsage)
	}

	cmd, operands := args[0], args[1:]

	switch cmd {
	case "help", "-h", "-help", "--help":
		fmt.Fprintln(a.stdio.Out, usage)
		return nil
	case "migrate":
		if len(operands) != 0 {
			return fmt.Errorf("%w: migrate takes no arguments", ErrUsage)
		}
		return a.runMigrate(ctx)
	case "register", "passwd", "token":
		if len(operands) != 1 {
			return fmt.Errorf("%w: %s takes exactly one username", ErrUsage, cmd)
		}
	default:
		fmt.Fprintln(a.stdio.Err, usage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}

	username := operands[0]

	switch cmd {
	case "register":
		return a.runRegister(ctx, username)
	case "passwd":
		return a.runPasswd(ctx, username)
	default:
		return a.runToken(ctx, username)
	}
}
