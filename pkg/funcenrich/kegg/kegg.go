// Package kegg reads pathway-to-ortholog links and pathway names in the
// tab-separated format served by the KEGG REST API.
package kegg

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cognicore/funcenrich/pkg/funcenrich/internalerr"
	"github.com/cognicore/funcenrich/pkg/funcenrich/store"
)

// ParseLinks reads "path:ko00010<TAB>ko:K00844" lines and groups
// genes per pathway. Only pathways whose ID starts with organism are
// kept ("ko" keeps ko00010 and drops map00010); an empty organism keeps
// everything. Gene order follows the input.
func ParseLinks(r io.Reader, organism string) (map[string][]string, error) {
	links := make(map[string][]string)
	seen := make(map[[2]string]struct{})

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			return nil, fmt.Errorf("%w: line %d: expected 2 tab-separated fields", internalerr.ErrInvalidInput, lineNo)
		}
		pathway := stripPrefix(parts[0])
		gene := stripPrefix(parts[1])
		if pathway == "" || gene == "" {
			continue
		}
		if organism != "" && !strings.HasPrefix(pathway, organism) {
			continue
		}
		key := [2]string{pathway, gene}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		links[pathway] = append(links[pathway], gene)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return links, nil
}

// ParseNames reads "path:map00010<TAB>Glycolysis / Gluconeogenesis"
// lines into a map keyed by the numeric pathway code ("00010"), so that
// names listed for map pathways also label organism pathways.
func ParseNames(r io.Reader) (map[string]string, error) {
	names := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, name, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		code := numericCode(stripPrefix(id))
		if code == "" {
			continue
		}
		names[code] = strings.TrimSpace(name)
	}
	return names, scanner.Err()
}

// Pathways joins links and names into store records ordered by ID.
func Pathways(links map[string][]string, names map[string]string) []store.Pathway {
	out := make([]store.Pathway, 0, len(links))
	for id, genes := range links {
		out = append(out, store.Pathway{
			ID:    id,
			Name:  names[numericCode(id)],
			Genes: append([]string(nil), genes...),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func stripPrefix(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// numericCode returns the trailing digits of a pathway ID.
func numericCode(id string) string {
	i := len(id)
	for i > 0 && id[i-1] >= '0' && id[i-1] <= '9' {
		i--
	}
	return id[i:]
}
