// Package admin bootstraps administrator accounts from the command line.
package admin

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/shadowinterview/internal/common"
	"github.com/dmitrijs2005/shadowinterview/internal/prompt"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

// Users is implemented by *services.UserService.
type Users interface {
	EnsureAdmin(ctx context.Context, username, password string) (bool, error)
}

// Bootstrapper asks for credentials and creates or promotes the account.
type Bootstrapper struct {
	Users Users
	In    *bufio.Reader
	Out   io.Writer
	// Password reads a secret without echo; defaults to prompt.GetPassword.
	Password func(w io.Writer, label string) ([]byte, error)
}

func NewBootstrapper(u Users, in io.Reader, out io.Writer) *Bootstrapper {
	return &Bootstrapper{
		Users:    u,
		In:       bufio.NewReader(in),
		Out:      out,
		Password: prompt.GetPassword,
	}
}

// Run prompts for the username when it is empty, then for the password
// twice. Password buffers are wiped before returning.
func (b *Bootstrapper) Run(ctx context.Context, username string) error {
	var err error
	if username == "" {
		username, err = prompt.GetSimpleText(b.In, "Admin username", b.Out)
		if err != nil {
			return err
		}
	}

	pw, err := b.Password(b.Out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	confirm, err := b.Password(b.Out, "Repeat password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(pw, confirm) {
		return ErrPasswordMismatch
	}

	created, err := b.Users.EnsureAdmin(ctx, username, string(pw))
	if err != nil {
		return err
	}

	if created {
		fmt.Fprintf(b.Out, "Admin %q created\n", username)
	} else {
		fmt.Fprintf(b.Out, "User %q promoted to admin and password reset\n", username)
	}
	return nil
}
