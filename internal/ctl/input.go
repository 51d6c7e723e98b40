package ctl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// ErrNoInput is returned when stdin ends before a password line.
var ErrNoInput = errors.New("no input on stdin")

// readLine reads one line from reader with the trailing newline trimmed.
// A partial line at EOF is returned as is.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// getPassword reads a secret. On a terminal it prints prompt to the
// prompt writer and reads without echo; otherwise it consumes one line
// from stdin and prints nothing.
func (a *App) getPassword(prompt string) (string, error) {
	if !a.stdio.Interactive {
		return readLine(a.reader)
	}

	if _, err := fmt.Fprint(a.stdio.Err, prompt+": "); err != nil {
		return "", err
	}
	pw, err := readPassword(a.stdio.FD)
	fmt.Fprintln(a.stdio.Err)
	if err != nil {
		return "", err
	}
	defer clear(pw)
	return string(pw), nil
}

// getNewPassword reads a new password, asking for confirmation on a terminal.
func (a *App) getNewPassword(prompt string) (string, error) {
	pw, err := a.getPassword(prompt)
	if err != nil || !a.stdio.Interactive {
		return pw, err
	}

	confirm, err := a.getPassword("Repeat " + strings.ToLower(prompt))
	if err != nil {
		return "", err
	}
	if confirm != pw {
		return "", ErrPasswordMismatch
	}
	return pw, nil
}
