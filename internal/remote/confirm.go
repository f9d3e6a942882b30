package remote

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks the user to acknowledge an irreversible action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Assume answers every prompt with a fixed value, for scripted use.
type Assume bool

func (a Assume) Confirm(context.Context, string) (bool, error) {
	return bool(a), nil
}

// Prompter asks on a terminal and accepts y or yes.
type Prompter struct {
	In  io.Reader
	Out io.Writer
}

func (p Prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if _, err := fmt.Fprintf(p.Out, "%s [y/N]: ", prompt); err != nil {
		return false, err
	}
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
