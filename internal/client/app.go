package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-note-vault/internal/app"
	"github.com/MKhiriev/go-note-vault/internal/config"
	"github.com/MKhiriev/go-note-vault/internal/container"
	"github.com/MKhiriev/go-note-vault/internal/logger"
	"github.com/MKhiriev/go-note-vault/internal/service"
	"github.com/MKhiriev/go-note-vault/internal/store"
	"github.com/MKhiriev/go-note-vault/models"
)

// maxPasswordAttempts bounds interactive retries after a wrong password.
const maxPasswordAttempts = 3

type App struct {
	root      *cobra.Command
	flags     *config.StructuredConfig
	buildInfo models.AppBuildInfo
	prompter  Prompter
	openTTY   func() (*os.File, error)

	// in is the single buffered reader over stdin; the shell, the save
	// command and the line-based password fallback all read from it.
	in *bufio.Reader

	services *service.Services
	storages *store.Storages
	logger   *logger.Logger
}

// Option configures an [App].
type Option func(*App)

// WithPrompter replaces the terminal password prompt.
func WithPrompter(p Prompter) Option {
	return func(a *App) {
		a.prompter = p
	}
}

// withTTY replaces how the default prompter reaches the terminal.
func withTTY(open func() (*os.File, error)) Option {
	return func(a *App) {
		a.openTTY = open
	}
}

// WithIO redirects the command input and outputs.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *App) {
		a.root.SetIn(in)
		a.root.SetOut(out)
		a.root.SetErr(errOut)
	}
}

// NewApp builds the notevault command tree.
func NewApp(buildInfo models.AppBuildInfo, opts ...Option) *App {
	a := &App{buildInfo: buildInfo, openTTY: openControllingTTY}

	a.root = &cobra.Command{
		Use:           "notevault",
		Short:         "Password-encrypted text documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	a.flags = config.BindFlags(a.root.PersistentFlags())

	a.root.AddCommand(
		a.newCommand(),
		a.saveCommand(),
		a.openCommand(),
		a.inspectCommand(),
		a.listCommand(),
		a.migrateCommand(),
		a.renameCommand(),
		a.removeCommand(),
		a.shellCommand(),
		a.versionCommand(),
	)

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Run executes args and releases the session and storage afterwards.
func (a *App) Run(ctx context.Context, args []string) error {
	defer a.close()

	a.root.SetArgs(args)
	return a.root.ExecuteContext(ctx)
}

func (a *App) init(cmd *cobra.Command) error {
	a.in = bufio.NewReader(cmd.InOrStdin())
	if a.prompter == nil {
		a.prompter = newTerminalPrompter(a.in, cmd.ErrOrStderr(), a.openTTY)
	}

	cfg, err := config.GetStructuredConfig(a.flags)
	if err != nil {
		return fmt.Errorf("error getting configs: %w", err)
	}

	log := logger.NewFileLogger("notevault", cfg.App.LogFile)
	if err = log.SetLevel(cfg.App.LogLevel); err != nil {
		return fmt.Errorf("error setting log level: %w", err)
	}
	a.logger = log

	ctx := log.WithContext(cmd.Context())

	a.storages, err = store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}

	a.services, err = service.NewServices(a.storages, cfg, a.buildInfo, log)
	if err != nil {
		return fmt.Errorf("create services: %w", err)
	}

	cmd.SetContext(ctx)
	log.Debug().Str("mode", cfg.Session.Mode).Str("command", cmd.Name()).Msg("session started")
	return nil
}

func (a *App) close() {
	if c, ok := a.prompter.(io.Closer); ok {
		_ = c.Close()
	}
	if a.services != nil {
		a.services.Shutdown()
	}
	if a.storages != nil {
		if err := a.storages.Close(); err != nil && a.logger != nil {
			a.logger.Warn().Err(err).Msg("error closing storage")
		}
	}
}

func passwordPrompt(path, hint string) string {
	if hint == "" {
		return fmt.Sprintf("Password for %s: ", path)
	}
	return fmt.Sprintf("Password for %s (hint: %s): ", path, hint)
}

// withPassword prompts for a password and hands it to try, retrying while
// try reports a wrong password.
func (a *App) withPassword(errOut io.Writer, path, hint string, try func(password string) error) error {
	for attempt := 1; attempt <= maxPasswordAttempts; attempt++ {
		password, err := a.prompter.ReadPassword(passwordPrompt(path, hint))
		if err != nil {
			return err
		}

		err = try(password)
		if !errors.Is(err, container.ErrAuthFailed) {
			return err
		}
		if attempt < maxPasswordAttempts {
			fmt.Fprintln(errOut, app.MsgWrongPassword)
		}
	}

	return &userError{msg: path + ": " + app.MsgTooManyAttempts, err: container.ErrAuthFailed}
}

// unlock opens path, prompting only when the session has nothing usable.
func (a *App) unlock(ctx context.Context, errOut io.Writer, path string) (models.Document, error) {
	docs := a.services.DocumentService

	doc, err := docs.Open(ctx, path, "")
	if !errors.Is(err, service.ErrPasswordRequired) {
		return doc, err
	}

	hint := doc.Hint
	err = a.withPassword(errOut, path, hint, func(password string) error {
		var openErr error
		doc, openErr = docs.Open(ctx, path, password)
		return openErr
	})
	return doc, err
}

// newPassword asks for a password twice for a document that has none yet.
func (a *App) newPassword(path string) (string, error) {
	first, err := a.prompter.ReadPassword(fmt.Sprintf("New password for %s: ", path))
	if err != nil {
		return "", err
	}
	if first == "" {
		return "", &userError{msg: app.MsgPasswordRequired, err: service.ErrPasswordRequired}
	}

	second, err := a.prompter.ReadPassword("Repeat password: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New(app.MsgPasswordMismatch)
	}

	return first, nil
}

// save encrypts plaintext into path. Existing documents must be unlocked
// with their current password first; new documents and placeholders get a
// fresh password.
func (a *App) save(ctx context.Context, errOut io.Writer, path, plaintext, hint string) error {
	docs := a.services.DocumentService

	err := docs.Save(ctx, path, plaintext, "", hint)
	if !errors.Is(err, service.ErrPasswordRequired) {
		return err
	}

	info, err := docs.Inspect(ctx, path)
	if err == nil && !info.Pending {
		return a.withPassword(errOut, path, info.Hint, func(password string) error {
			if _, err := docs.Open(ctx, path, password); err != nil {
				return err
			}
			return docs.Save(ctx, path, plaintext, password, hint)
		})
	}

	password, err := a.newPassword(path)
	if err != nil {
		return err
	}
	return docs.Save(ctx, path, plaintext, password, hint)
}
