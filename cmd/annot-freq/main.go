package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/cognicore/funcenrich/pkg/funcenrich/config"
	"github.com/cognicore/funcenrich/pkg/funcenrich/internalerr"
	"github.com/cognicore/funcenrich/pkg/funcenrich/pipeline"
	"github.com/cognicore/funcenrich/pkg/funcenrich/store"
)

func main() {
	var (
		cfgPath  = flag.String("config", "", "YAML configuration file (optional)")
		kegg     = flag.String("kegg", "", "KEGG identifier file (overrides inputs.kegg_file)")
		goFile   = flag.String("go", "", "GO identifier file (overrides inputs.go_file)")
		dbPath   = flag.String("db", "", "Annotation database with GO terms (overrides database.path)")
		top      = flag.Int("top", 0, "Identifiers shown per chart (overrides selection.top_n)")
		perCat   = flag.Int("top-per-category", 0, "GO terms shown per category")
		outDir   = flag.String("out", "", "Output directory (overrides output.dir)")
		skipGO   = flag.Bool("skip-go", false, "Only tabulate the KEGG file")
		skipKEGG = flag.Bool("skip-kegg", false, "Only tabulate the GO file")
	)
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	if *kegg != "" {
		cfg.Inputs.KeggFile = *kegg
	}
	if *goFile != "" {
		cfg.Inputs.GOFile = *goFile
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *top > 0 {
		cfg.Selection.TopN = *top
	}
	if *perCat > 0 {
		cfg.Selection.TopNPerCategory = *perCat
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if *skipGO {
		cfg.Inputs.GOFile = ""
	}
	if *skipKEGG {
		cfg.Inputs.KeggFile = ""
	}
	if cfg.Inputs.KeggFile == "" && cfg.Inputs.GOFile == "" {
		log.Fatal("nothing to do: both KEGG and GO inputs are disabled")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	var terms store.TermView
	if cfg.Inputs.GOFile != "" {
		loader := config.Loader{DatabasePath: cfg.Database.Path}
		components, err := loader.Load(ctx)
		switch {
		case errors.Is(err, internalerr.ErrStoreUnavailable):
			log.Printf("annotation db unavailable, GO terms will not be annotated: %v", err)
		case err != nil:
			log.Fatalf("load annotation db: %v", err)
		default:
			defer components.Store.Close()
			terms = components.Terms
		}
	}

	res, err := pipeline.RunFrequency(ctx, cfg, terms, os.Stdout)
	if err != nil {
		log.Fatalf("frequency: %v", err)
	}
	if res.ManifestPath != "" {
		log.Printf("results written to %s (run %s)", cfg.Output.Dir, res.Manifest.RunID)
	}
}
