// Package obo parses Gene Ontology terms from OBO 1.2 flat files such
// as go-basic.obo.
package obo

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cognicore/funcenrich/pkg/funcenrich/internalerr"
	"github.com/cognicore/funcenrich/pkg/funcenrich/store"
)

// Parse returns every [Term] stanza in r. Other stanza types
// ([Typedef], [Instance]) are skipped.
func Parse(r io.Reader) ([]store.Term, error) {
	var (
		terms  []store.Term
		cur    *store.Term
		inTerm bool
	)
	flush := func() {
		if inTerm && cur != nil && cur.ID != "" {
			terms = append(terms, *cur)
		}
		cur = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "!") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			flush()
			inTerm = line == "[Term]"
			if inTerm {
				cur = &store.Term{}
			}
			continue
		}
		if !inTerm {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			return nil, fmt.Errorf("%w: line %d: expected \"tag: value\"", internalerr.ErrInvalidInput, lineNo)
		}
		value = stripComment(strings.TrimSpace(value))
		switch key {
		case "id":
			cur.ID = value
		case "name":
			cur.Name = value
		case "namespace":
			cur.Namespace = value
		case "alt_id":
			cur.AltIDs = append(cur.AltIDs, value)
		case "is_obsolete":
			cur.Obsolete = value == "true"
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return terms, nil
}

// stripComment drops a trailing "! comment" from a tag value.
func stripComment(v string) string {
	if i := strings.Index(v, " !"); i >= 0 {
		return strings.TrimSpace(v[:i])
	}
	return v
}
