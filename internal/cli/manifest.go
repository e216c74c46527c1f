package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtat/variantgen/internal/loader"
	"github.com/mtat/variantgen/internal/manifest"
	"github.com/mtat/variantgen/internal/variant"
)

func init() {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "List generated variants from the manifest",
		Long: "List manifest records. A record is marked stale when its module directory is\n" +
			"still readable and the module's current version differs from the version the\n" +
			"variant was generated from.",
		Run: runManifest,
	}

	cmd.Flags().StringP("module", "m", "", "Filter by module id")
	cmd.Flags().Bool("stale-only", false, "Only show records that are stale")

	RootCmd.AddCommand(cmd)
}

// manifestEntry is a Record plus derived staleness for display.
type manifestEntry struct {
	manifest.Record
	SourceVersion string `json:"source_version,omitempty"`
	Stale         bool   `json:"stale,omitempty"`
}

func runManifest(cmd *cobra.Command, args []string) {
	moduleID, _ := cmd.Flags().GetString("module")
	staleOnly, _ := cmd.Flags().GetBool("stale-only")

	log := manifest.New(outputDir)

	var recs []manifest.Record
	var err error
	if moduleID != "" {
		recs, err = log.ForModule(moduleID)
	} else {
		recs, err = log.All()
	}
	if err != nil {
		exitErr(exitManifest, "manifest", err)
	}

	var entries []manifestEntry
	for _, r := range recs {
		e := manifestEntry{Record: r}
		mod, lerr := loader.Load(r.ModulePath)
		fm, ferr := variant.ReadFrontMatter(r.OutputFile)
		if lerr == nil && ferr == nil {
			e.SourceVersion = fm.Version
			e.Stale = mod.Meta.Version != fm.Version
		}
		if staleOnly && !e.Stale {
			continue
		}
		entries = append(entries, e)
	}

	if len(entries) == 0 {
		fmt.Println("[]")
		return
	}
	b, _ := json.MarshalIndent(entries, "", "  ")
	fmt.Println(string(b))
}
