package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/awnumar/memguard"

	"github.com/MKhiriev/go-note-vault/internal/client"
	"github.com/MKhiriev/go-note-vault/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	// wipes every enclave and locked buffer before the process dies on SIGINT
	memguard.CatchInterrupt()

	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	defer memguard.Purge()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := client.NewApp(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "notevault: %v\n", err)
		return 1
	}

	return 0
}
