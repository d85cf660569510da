//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the thermocycle project using Mage.
//
// Usage:
//
//	mage build        Compile thermo binary to bin/
//	mage install      Install thermo to GOPATH/bin
//	mage clean        Remove build artifacts
//	mage lint         Run golangci-lint
//	mage fmt          List files that need gofmt
//	mage test:all     Run all tests
//	mage test:unit    Run tests without the CLI package
//	mage test:race    Run all tests with the race detector
//	mage test:cover   Write a coverage profile to bin/
//	mage sample       Write the reference tables to bin/sample.jsonl
//	mage smoke        Build, then drive the binary against the sample
//	mage stats        Print Go LOC and documentation word counts
package main

import (
	"fmt"
	"time"
)

// logf prints a timestamped progress line.
func logf(format string, args ...any) {
	fmt.Printf("[%s] %s\n", time.Now().Format(time.RFC3339), fmt.Sprintf(format, args...))
}
