//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "thermo"
	binaryDir  = "bin"
	cmdDir     = "./cmd/thermo"
	modulePath = "github.com/mesh-intelligence/thermocycle"
)

// Build compiles the thermo binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-ldflags", versionFlags(),
		"-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// versionFlags stamps the binary with THERMO_VERSION when it is set.
func versionFlags() string {
	v := os.Getenv("THERMO_VERSION")
	if v == "" {
		return ""
	}
	return "-X " + modulePath + "/internal/cli.Version=" + v
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
