package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtat/variantgen/internal/prompt"
)

func init() {
	cmd := &cobra.Command{
		Use:   "audiences",
		Short: "List the built-in audience presets",
		Long:  "List the built-in audience presets and their adaptation guidance.\nAny other value passed to --audience is treated as a custom free-text description.",
		Run:   runAudiences,
	}

	RootCmd.AddCommand(cmd)
}

func runAudiences(cmd *cobra.Command, args []string) {
	for _, name := range prompt.PresetNames() {
		fmt.Printf("%s\n  %s\n\n", name, prompt.Presets[name])
	}
}
