package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/cognicore/funcenrich/pkg/funcenrich/kegg"
	"github.com/cognicore/funcenrich/pkg/funcenrich/obo"
	"github.com/cognicore/funcenrich/pkg/funcenrich/store"
	"github.com/cognicore/funcenrich/pkg/funcenrich/store/sqlite"
	"github.com/cognicore/funcenrich/pkg/funcenrich/table"
)

func main() {
	var (
		dbPath   = flag.String("db", "annodb.sqlite", "Annotation database to create or update")
		links    = flag.String("links", "", "KEGG pathway link file (link/<organism>/pathway output)")
		names    = flag.String("names", "", "KEGG pathway name file (list/pathway output)")
		fetch    = flag.Bool("fetch", false, "Download pathways from the KEGG REST API instead of -links/-names")
		baseURL  = flag.String("kegg-url", kegg.DefaultBaseURL, "KEGG REST base URL")
		organism = flag.String("organism", "ko", "Pathway prefix to keep (ko, hsa, map, ...)")
		oboPath  = flag.String("obo", "", "GO ontology in OBO format (go-basic.obo, optionally .gz)")
	)
	flag.Parse()

	if !*fetch && *links == "" && *oboPath == "" {
		log.Fatal("nothing to load: pass -fetch, -links or -obo")
	}
	if *links != "" && *names == "" {
		log.Fatal("--names required with --links")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st, err := sqlite.OpenSQLite(ctx, *dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer st.Close()

	var pathways []store.Pathway
	switch {
	case *fetch:
		client := &kegg.Client{BaseURL: *baseURL}
		log.Printf("fetching %s pathways from %s", *organism, *baseURL)
		pathways, err = client.FetchPathways(ctx, *organism)
		if err != nil {
			log.Fatalf("fetch pathways: %v", err)
		}
	case *links != "":
		pathways, err = readPathways(*links, *names, *organism)
		if err != nil {
			log.Fatalf("read pathways: %v", err)
		}
	}
	for _, p := range pathways {
		if err := st.UpsertPathway(ctx, p); err != nil {
			log.Fatalf("store pathway %s: %v", p.ID, err)
		}
	}
	if len(pathways) > 0 {
		log.Printf("stored %d pathways", len(pathways))
	}

	if *oboPath != "" {
		terms, err := readTerms(*oboPath)
		if err != nil {
			log.Fatalf("read ontology: %v", err)
		}
		if err := st.UpsertTerms(ctx, terms); err != nil {
			log.Fatalf("store terms: %v", err)
		}
		log.Printf("stored %d GO terms", len(terms))
	}

	total, err := st.PathwayCount(ctx)
	if err != nil {
		log.Fatalf("count pathways: %v", err)
	}
	log.Printf("%s now holds %d pathways", *dbPath, total)
}

func readPathways(linksPath, namesPath, organism string) ([]store.Pathway, error) {
	lr, err := table.Open(linksPath)
	if err != nil {
		return nil, err
	}
	defer lr.Close()
	links, err := kegg.ParseLinks(lr, organism)
	if err != nil {
		return nil, err
	}

	nr, err := table.Open(namesPath)
	if err != nil {
		return nil, err
	}
	defer nr.Close()
	pathwayNames, err := kegg.ParseNames(nr)
	if err != nil {
		return nil, err
	}
	return kegg.Pathways(links, pathwayNames), nil
}

func readTerms(path string) ([]store.Term, error) {
	r, err := table.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return obo.Parse(r)
}
