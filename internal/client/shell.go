package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-note-vault/internal/session"
)

const shellHelp = `commands:
  open <doc>...         decrypt and print documents
  save <doc> <text>     encrypt text into a document
  new <doc>             create a placeholder
  ls                    list documents
  lock <doc>            forget cached credentials of a document
  lock-all              forget every cached credential
  mode [<mode>]         show or switch the session mode
  status                show the session state
  exit                  leave the shell
`

// shellCommand keeps one session cache alive across many operations, which
// is what makes password sharing and expiry observable from the terminal.
func (a *App) shellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run an interactive session reading commands from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

			for {
				fmt.Fprint(out, "notevault> ")
				line, err := a.in.ReadString('\n')
				if line == "" && err != nil {
					fmt.Fprintln(out)
					if errors.Is(err, io.EOF) {
						return nil
					}
					return err
				}

				fields := strings.Fields(line)
				if len(fields) == 0 {
					continue
				}
				if fields[0] == "exit" || fields[0] == "quit" {
					return nil
				}

				if err := a.shellExec(ctx, out, errOut, fields); err != nil {
					fmt.Fprintf(errOut, "error: %v\n", err)
				}
			}
		},
	}
}

func (a *App) shellExec(ctx context.Context, out, errOut io.Writer, fields []string) error {
	docs := a.services.DocumentService
	cache := a.services.Session
	name, args := fields[0], fields[1:]

	switch name {
	case "help":
		fmt.Fprint(out, shellHelp)
	case "open":
		if len(args) == 0 {
			return errors.New("usage: open <doc>...")
		}
		for _, path := range args {
			doc, err := a.unlock(ctx, errOut, path)
			if err != nil {
				return mapError(path, err)
			}
			fmt.Fprintln(out, doc.Plaintext)
		}
	case "save":
		if len(args) < 2 {
			return errors.New("usage: save <doc> <text>")
		}
		path := args[0]
		if err := a.save(ctx, errOut, path, strings.Join(args[1:], " "), ""); err != nil {
			return mapError(path, err)
		}
	case "new":
		if len(args) != 1 {
			return errors.New("usage: new <doc>")
		}
		return mapError(args[0], docs.Create(ctx, args[0]))
	case "ls":
		infos, err := docs.List(ctx)
		if err != nil {
			return err
		}
		for _, info := range infos {
			fmt.Fprintln(out, info.Path)
		}
	case "lock":
		if len(args) != 1 {
			return errors.New("usage: lock <doc>")
		}
		docs.Lock(args[0])
	case "lock-all":
		docs.LockAll()
	case "mode":
		if len(args) == 0 {
			fmt.Fprintln(out, cache.Mode())
			return nil
		}
		mode, err := session.ParseMode(args[0])
		if err != nil {
			return err
		}
		return cache.SetMode(mode)
	case "status":
		fmt.Fprintf(out, "mode: %s\ncached: %d\n", cache.Mode(), cache.Len())
	default:
		return fmt.Errorf("unknown command %q, try help", name)
	}

	return nil
}
