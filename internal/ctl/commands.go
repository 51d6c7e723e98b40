package ctl

import (
	"context"
	"fmt"
)

func (a *App) runMigrate(ctx context.Context) error {
	if err := a.migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	fmt.Fprintln(a.stdio.Out, "migrations applied")
	return nil
}

func (a *App) runRegister(ctx context.Context, username string) error {
	pw, err := a.getNewPassword("Password")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	account, err := a.users.Register(ctx, username, pw)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	fmt.Fprintf(a.stdio.Out, "registered %s\n", account.Username)
	return nil
}

func (a *App) runPasswd(ctx context.Context, username string) error {
	current, err := a.getPassword("Current password")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	next, err := a.getNewPassword("New password")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	if err := a.users.ChangePassword(ctx, username, current, next); err != nil {
		return fmt.Errorf("passwd: %w", err)
	}

	fmt.Fprintf(a.stdio.Out, "password changed for %s\n", username)
	return nil
}

// runToken prints only the token on stdout so it can be captured by scripts.
func (a *App) runToken(ctx context.Context, username string) error {
	pw, err := a.getPassword("Password")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	res, err := a.users.Login(ctx, username, pw)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	fmt.Fprintln(a.stdio.Out, res.Token)
	return nil
}
