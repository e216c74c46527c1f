package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/mtat/variantgen/internal/genai"
	"github.com/mtat/variantgen/internal/manifest"
	"github.com/mtat/variantgen/internal/pipeline"
	"github.com/mtat/variantgen/internal/prompt"
)

func init() {
	cmd := &cobra.Command{
		Use:   "generate <module-path>",
		Short: "Generate an audience-adapted variant of a module",
		Long: `Generate an audience-adapted variant of one training module.

The module directory must contain base.md and metadata.yaml. The audience is
either a preset name (see "variantgen audiences") or a free-text description
of who the content is for.

Examples:
  variantgen generate example-course/01-concept --audience developer
  variantgen generate example-course/02-demo --audience executive --locale es-MX
  variantgen generate example-course/01-concept --audience "healthcare compliance officers" -o my-output`,
		Args: cobra.ExactArgs(1),
		Run:  runGenerate,
	}

	cmd.Flags().StringP("audience", "a", "", "Target audience: preset name or free-text description (required)")
	cmd.Flags().StringP("locale", "l", "en-US", "Output locale as a BCP 47 tag, e.g. es-MX, fr-FR, ja-JP")
	cmd.Flags().String("prompt", "", "Path to an alternate adaptation system prompt (default: built-in, or $VARIANTGEN_PROMPT)")

	cmd.MarkFlagRequired("audience")

	RootCmd.AddCommand(cmd)
}

func runGenerate(cmd *cobra.Command, args []string) {
	audience, _ := cmd.Flags().GetString("audience")
	locale, _ := cmd.Flags().GetString("locale")
	promptPath, _ := cmd.Flags().GetString("prompt")

	if _, err := language.Parse(locale); err != nil {
		exitErr(exitInput, "locale", fmt.Errorf("%q is not a valid BCP 47 tag: %v", locale, err))
	}

	if promptPath == "" {
		promptPath = os.Getenv("VARIANTGEN_PROMPT")
	}
	system := prompt.DefaultSystem()
	if promptPath != "" {
		b, err := os.ReadFile(promptPath)
		if err != nil {
			exitErr(exitUsage, "read system prompt", err)
		}
		system = string(b)
	}

	gen, err := genai.NewFromEnv()
	if err != nil {
		exitErr(exitProvider, "provider", err)
	}

	logger := newLogger()
	defer logger.Sync()

	fmt.Printf("  Model : %s\n", gen.Model())
	fmt.Printf("  Module: %s\n", args[0])
	fmt.Printf("  Audience: %s  |  Locale: %s\n", audience, locale)
	fmt.Println("  Calling provider...")

	out, err := pipeline.New(gen, logger).Run(cmd.Context(), pipeline.Params{
		ModulePath: args[0],
		Audience:   audience,
		Locale:     locale,
		OutputDir:  outputDir,
		System:     system,
	})
	if err != nil {
		if out != nil && out.OutputFile != "" {
			fmt.Fprintf(os.Stderr, "note: variant written to %s but not recorded in the manifest\n", out.OutputFile)
		}
		exitErr(exitCode(err), "generate", err)
	}

	fmt.Println("\nDone.")
	fmt.Printf("  Variant : %s\n", out.OutputFile)
	fmt.Printf("  Manifest: %s\n", manifest.New(outputDir).Path())
}
