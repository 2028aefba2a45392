//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "freqdeck"
	mainPath   = "./cmd/freqdeck"
)

// Default target to run when none is specified
var Default = Build

// Build builds the freqdeck binary
func Build() error {
	fmt.Println("Building", binaryName)
	return sh.RunV("go", "build", "-o", binaryName, mainPath)
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install installs the binary into GOPATH/bin
func Install() error {
	mg.Deps(Test)

	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	fmt.Println("Installing to", filepath.Join(gopath, "bin", binaryName))
	return sh.RunV("go", "install", mainPath)
}

// Clean removes build artifacts
func Clean() error {
	fmt.Println("Cleaning...")
	return os.RemoveAll(binaryName)
}
