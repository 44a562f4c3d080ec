package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/cognicore/funcenrich/pkg/funcenrich/config"
	"github.com/cognicore/funcenrich/pkg/funcenrich/pipeline"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "YAML configuration file (optional)")
		input   = flag.String("input", "", "Identifier file (overrides inputs.kegg_file)")
		column  = flag.String("column", "", "Identifier column (overrides inputs.kegg_column)")
		dbPath  = flag.String("db", "", "Annotation database (overrides database.path)")
		pcut    = flag.Float64("pcut", 0, "p-value cutoff (overrides enrichment.pvalue_cutoff)")
		qcut    = flag.Float64("qcut", 0, "q-value cutoff (overrides enrichment.qvalue_cutoff)")
		adjust  = flag.String("adjust", "", "Adjust method: BH, BY, bonferroni, holm, hochberg, none")
		top     = flag.Int("top", 0, "Pathways shown in charts (overrides selection.top_n)")
		outDir  = flag.String("out", "", "Output directory (overrides output.dir)")
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
	if *input != "" {
		cfg.Inputs.KeggFile = *input
	}
	if *column != "" {
		cfg.Inputs.KeggColumn = *column
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *pcut > 0 {
		cfg.Enrichment.PValueCutoff = *pcut
	}
	if *qcut > 0 {
		cfg.Enrichment.QValueCutoff = *qcut
	}
	if *adjust != "" {
		cfg.Enrichment.AdjustMethod = *adjust
	}
	if *top > 0 {
		cfg.Selection.TopN = *top
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	loader := config.Loader{DatabasePath: cfg.Database.Path}
	components, err := loader.Load(ctx)
	if err != nil {
		log.Fatalf("load annotation db: %v (build it with build-annodb)", err)
	}
	defer components.Store.Close()
	log.Printf("annotation db %s: %d pathways", cfg.Database.Path, components.Pathways)

	res, err := pipeline.RunEnrichment(ctx, cfg, components.Store, os.Stdout)
	if err != nil {
		log.Fatalf("enrichment: %v", err)
	}
	if res.ManifestPath != "" {
		log.Printf("results written to %s (run %s)", cfg.Output.Dir, res.Manifest.RunID)
	}
}
