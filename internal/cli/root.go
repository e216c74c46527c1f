// Package cli implements the variantgen CLI commands.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mtat/variantgen/internal/genai"
	"github.com/mtat/variantgen/internal/loader"
	"github.com/mtat/variantgen/internal/manifest"
)

var (
	outputDir string
	verbose   bool
)

// Exit codes by failure category. Input problems are the caller's to fix;
// provider and manifest failures are operationally distinct conditions.
const (
	exitUsage    = 1
	exitInput    = 2
	exitProvider = 3
	exitManifest = 4
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "variantgen",
	Short: "Generate audience-adapted variants of training modules",
	Long: "variantgen adapts modular training content for different audiences and locales\n" +
		"by calling a text-generation model. Every generated variant is written under the\n" +
		"output directory and recorded in an append-only manifest.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "variants", "Output directory for generated variants and the manifest")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Structured debug logging on stderr")
}

// newLogger builds the run-scoped logger. Quiet by default; --verbose gets
// a console logger tagged with a fresh run id.
func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l.With(zap.String("run", ulid.Make().String()))
}

func exitErr(code int, msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(code)
}

// exitCode maps an error to its category's exit code.
func exitCode(err error) int {
	switch {
	case errors.Is(err, loader.ErrModuleNotFound), errors.Is(err, loader.ErrMalformedModule):
		return exitInput
	case errors.Is(err, genai.ErrUnavailable), errors.Is(err, genai.ErrRejected):
		return exitProvider
	case errors.Is(err, manifest.ErrWrite):
		return exitManifest
	default:
		return exitUsage
	}
}
