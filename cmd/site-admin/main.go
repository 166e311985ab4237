// Package main provides the site-admin console for a site project.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirosfoundation/go-site-backend/cmd/site-admin/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
