// Copyright (c) 2025 BrowseMate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"browsemate/cli/internal/auth"
	"browsemate/cli/internal/backend"
	"browsemate/cli/internal/catalog"
	"browsemate/cli/internal/config"
	"browsemate/cli/internal/keychain"
	"browsemate/cli/internal/logging"
	"browsemate/cli/internal/manifest"
	"browsemate/cli/internal/session"

	"github.com/pterm/pterm"
	"go.uber.org/zap"
)

// app holds the wired dependencies of one invocation.
type app struct {
	cfg   config.Config
	log   *zap.Logger
	flush func()
	api   *backend.HTTP
	store *catalog.Store

	kv   *keychain.Manager
	flag *auth.Flag
	auth *auth.Service
}

// newApp loads configuration and builds the HTTP clients and catalog store.
// Secure storage is opened separately by withSession, so catalog-only
// commands work on machines without a keychain.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if verbose {
		pterm.EnableDebugMessages()
	}
	log, flush, err := logging.New(logging.Options{Level: cfg.LogLevel, Verbose: verbose})
	if err != nil {
		return nil, err
	}
	m, err := manifest.GetEndpoints(cfg)
	if err != nil {
		flush()
		return nil, err
	}
	api := backend.New(m)
	log.Debug("endpoints resolved",
		zap.String("catalog", m.ProductsURL()),
		zap.String("identity", m.Identity.BaseURL),
	)
	return &app{
		cfg:   cfg,
		log:   log,
		flush: flush,
		api:   api,
		store: catalog.NewStore(api, log),
	}, nil
}

// withSession opens secure storage and the auth service.
func (a *app) withSession() error {
	if a.auth != nil {
		return nil
	}
	kv, err := keychain.GetManager()
	if err != nil {
		a.log.Error("open keychain", logging.MaskedError(err))
		return fmt.Errorf("secure storage is not available: %w", err)
	}
	a.kv = kv
	a.flag = auth.NewFlag(kv)
	a.auth = auth.NewService(a.api, kv, a.log)
	return nil
}

// resolver returns a session resolver over the opened session. Call
// withSession first.
func (a *app) resolver() *session.Resolver {
	return session.New(a.flag, a.auth,
		session.WithRecheckDelay(a.cfg.RecheckDelay()),
		session.WithLogger(a.log),
	)
}

func (a *app) close() { a.flush() }
