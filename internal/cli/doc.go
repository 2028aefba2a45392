// Package cli provides the freqdeck command line: flag parsing, command
// creation and configuration loading with cobra and viper, and the wiring
// of the frequency store, translator and card sink for each command.
package cli
