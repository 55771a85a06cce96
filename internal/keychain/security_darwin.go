// Copyright (c) 2025 BrowseMate
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build darwin

package keychain

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// securityBackend implements keychain operations using the macOS security command.
// Entries are generic passwords with account=ServiceName and service=key.
type securityBackend struct{}

func newSecurityBackend() (*securityBackend, error) {
	if _, err := exec.LookPath("security"); err != nil {
		return nil, fmt.Errorf("security command not found: %w", err)
	}
	return &securityBackend{}, nil
}

// run executes security with args and returns trimmed stdout. A "could not be
// found" report is translated to ErrNotFound.
func (s *securityBackend) run(args ...string) (string, error) {
	cmd := exec.Command("security", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if strings.Contains(stderr.String(), "could not be found") {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("security %s: %s: %w", args[0], strings.TrimSpace(stderr.String()), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Set stores a key-value pair, replacing an existing entry.
func (s *securityBackend) Set(key, value string) error {
	_, err := s.run("add-generic-password", "-a", ServiceName, "-s", key, "-w", value, "-U")
	return err
}

// Get retrieves the value stored under key.
func (s *securityBackend) Get(key string) (string, error) {
	return s.run("find-generic-password", "-a", ServiceName, "-s", key, "-w")
}

// Delete removes key; a missing key is not an error.
func (s *securityBackend) Delete(key string) error {
	_, err := s.run("delete-generic-password", "-a", ServiceName, "-s", key)
	if err == ErrNotFound {
		return nil
	}
	return err
}
