// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-note-vault/internal/service"
)

func (a *App) newCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new <doc>...",
		Short: "Create empty documents that get a password on first save",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if err := a.services.DocumentService.Create(cmd.Context(), path); err != nil {
					return mapError(path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
			}
			return nil
		},
	}
}

func (a *App) saveCommand() *cobra.Command {
	var from, hint string

	cmd := &cobra.Command{
		Use:   "save <doc>",
		Short: "Encrypt stdin (or --from file) into a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			var (
				plaintext []byte
				err       error
			)
			if from != "" {
				plaintext, err = os.ReadFile(from)
			} else {
				plaintext, err = io.ReadAll(a.in)
			}
			if err != nil {
				return fmt.Errorf("read plaintext: %w", err)
			}

			if err = a.save(cmd.Context(), cmd.ErrOrStderr(), path, string(plaintext), hint); err != nil {
				return mapError(path, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "saved %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Read plaintext from this file instead of stdin")
	cmd.Flags().StringVar(&hint, "hint", "", "Password hint stored unencrypted with the document")

	return cmd
}

func (a *App) openCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open <doc>...",
		Short: "Decrypt documents to stdout",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			for i, path := range args {
				doc, err := a.unlock(cmd.Context(), cmd.ErrOrStderr(), path)
				if err != nil {
					return mapError(path, err)
				}

				if len(args) > 1 {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "==> %s <==\n", path)
				}
				fmt.Fprint(out, doc.Plaintext)

				if doc.Migrated {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s was upgraded to the current format\n", path)
				}
			}
			return nil
		},
	}
}

func (a *App) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <doc>",
		Short: "Show format, hint and encryption parameters without decrypting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := a.services.DocumentService.Inspect(cmd.Context(), args[0])
			if err != nil {
				return mapError(args[0], err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
}

func (a *App) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List encrypted documents",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos, err := a.services.DocumentService.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, info := range infos {
				state := fmt.Sprintf("v%d", info.Version)
				switch {
				case info.Pending:
					state = "pending"
				case info.Legacy:
					state += " legacy"
				}

				if info.Hint != "" {
					fmt.Fprintf(out, "%s\t%s\thint: %s\n", info.Path, state, info.Hint)
				} else {
					fmt.Fprintf(out, "%s\t%s\n", info.Path, state)
				}
			}
			return nil
		},
	}
}

func (a *App) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <doc>...",
		Short: "Rewrite legacy documents in the current format",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			docs := a.services.DocumentService

			for _, path := range args {
				migrated, err := docs.Migrate(ctx, path, "")
				if errors.Is(err, service.ErrPasswordRequired) {
					info, _ := docs.Inspect(ctx, path)
					err = a.withPassword(cmd.ErrOrStderr(), path, info.Hint, func(password string) error {
						var migrateErr error
						migrated, migrateErr = docs.Migrate(ctx, path, password)
						return migrateErr
					})
				}
				if err != nil {
					return mapError(path, err)
				}

				if migrated {
					fmt.Fprintf(cmd.OutOrStdout(), "migrated %s\n", path)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date\n", path)
				}
			}
			return nil
		},
	}
}

func (a *App) renameCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rename <old> <new>",
		Aliases: []string{"mv"},
		Short:   "Rename a document",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.services.DocumentService.Rename(cmd.Context(), args[0], args[1]); err != nil {
				return mapError(args[0], err)
			}
			return nil
		},
	}
}

func (a *App) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <doc>...",
		Short: "Delete documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if err := a.services.DocumentService.Delete(cmd.Context(), path); err != nil {
					return mapError(path, err)
				}
			}
			return nil
		},
	}
}

func (a *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := a.services.AppInfoService.GetBuildInfo(cmd.Context())
			fmt.Fprint(cmd.OutOrStdout(), info.String())
			return nil
		},
	}
}
