//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/mesh-intelligence/thermocycle/internal/fixture"
	"github.com/mesh-intelligence/thermocycle/internal/tables"
)

var samplePath = filepath.Join(binaryDir, "sample.jsonl")

// Sample writes the reference property tables to bin/sample.jsonl.
func Sample() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	tbls := fixture.Tables()
	if err := tables.WriteJSONL(samplePath, tbls); err != nil {
		return err
	}
	logf("sample: wrote %d table(s) to %s", len(tbls), samplePath)
	return nil
}

// Smoke builds the binary and runs one command of each kind against the
// sample dataset.
func Smoke() error {
	mg.Deps(Build, Sample)
	bin := filepath.Join(binaryDir, binaryName)
	db := filepath.Join(binaryDir, "smoke.db")
	runs := [][]string{
		{"version"},
		{"--dataset", samplePath, "tables"},
		{"--dataset", samplePath, "lookup", "water", "sat-T", "T=100"},
		{"--dataset", samplePath, "cycle", "rankine-ideal"},
		{"--dataset", samplePath, "solve", "rankine-ideal", "--unknown", "etaT", "--target", "wnet=1000"},
		{"--dataset", samplePath, "workflow", "phase-check", "--fluid", "Water", "--P", "1000", "--T", "200"},
		{"--dataset", samplePath, "dataset", "import", samplePath, "--to", db},
		{"--dataset", db, "dataset", "info"},
	}
	for _, args := range runs {
		logf("smoke: thermo %v", args)
		if err := sh.RunV(bin, args...); err != nil {
			return err
		}
	}
	return os.Remove(db)
}
