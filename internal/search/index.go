package search

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/helpw/internal/debuglog"
	"github.com/pders01/helpw/internal/helpcenter"
	"github.com/pders01/helpw/internal/widget"
)

// Index is a bleve full-text index over help-center articles.
type Index struct {
	idx bleve.Index
}

// NewIndex opens the index at indexPath, creating it when missing.
func NewIndex(indexPath string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	idx, err := bleve.Open(indexPath)
	if err != nil {
		idx, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("creating index: %w", err)
		}
	}
	return &Index{idx: idx}, nil
}

// NewMemIndex builds an index that lives only in memory.
func NewMemIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating in-memory index: %w", err)
	}
	return &Index{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	// plain text of the body, searchable but not returned
	text := bleve.NewTextFieldMapping()
	text.Analyzer = standard.Name
	text.Store = false

	stored := bleve.NewTextFieldMapping()
	stored.Index = false
	stored.Store = true

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("text", text)
	dm.AddFieldMappingsAt("body", stored)
	dm.AddFieldMappingsAt("html_url", stored)
	dm.AddFieldMappingsAt("section_id", stored)

	im.DefaultMapping = dm
	return im
}

// Index adds or replaces articles in one batch.
func (x *Index) Index(articles []helpcenter.Article) error {
	if len(articles) == 0 {
		return nil
	}
	batch := x.idx.NewBatch()
	for _, a := range articles {
		if err := batch.Index(docID(a.ID), map[string]any{
			"title":      a.Title,
			"text":       widget.StripTags(a.Body),
			"body":       a.Body,
			"html_url":   a.HTMLURL,
			"section_id": strconv.FormatInt(a.SectionID, 10),
		}); err != nil {
			return fmt.Errorf("indexing article %d: %w", a.ID, err)
		}
	}
	return x.idx.Batch(batch)
}

// OnArticles indexes and logs instead of failing; indexing is best-effort.
func (x *Index) OnArticles(articles []helpcenter.Article) {
	if err := x.Index(articles); err != nil {
		debuglog.Warnf("index update failed: %v", err)
	}
}

// Search matches query terms against titles (boosted) and body text.
func (x *Index) Search(query string, limit int) ([]*Result, error) {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return []*Result{}, nil
	}

	var qs []bleveQuery.Query
	for _, tok := range tokens {
		qt := bleve.NewMatchQuery(tok)
		qt.SetField("title")
		qt.SetBoost(4.0)
		qs = append(qs, qt)

		qtp := bleve.NewPrefixQuery(tok)
		qtp.SetField("title")
		qtp.SetBoost(3.0)
		qs = append(qs, qtp)

		qb := bleve.NewMatchQuery(tok)
		qb.SetField("text")
		qs = append(qs, qb)

		qbp := bleve.NewPrefixQuery(tok)
		qbp.SetField("text")
		qbp.SetBoost(0.8)
		qs = append(qs, qbp)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	req.Fields = []string{"title", "body", "html_url", "section_id"}
	res, err := x.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		id, err := strconv.ParseInt(strings.TrimPrefix(h.ID, "article:"), 10, 64)
		if err != nil {
			continue
		}
		a := helpcenter.Article{ID: id}
		if v, ok := h.Fields["title"].(string); ok {
			a.Title = v
		}
		if v, ok := h.Fields["body"].(string); ok {
			a.Body = v
		}
		if v, ok := h.Fields["html_url"].(string); ok {
			a.HTMLURL = v
		}
		if v, ok := h.Fields["section_id"].(string); ok {
			a.SectionID, _ = strconv.ParseInt(v, 10, 64)
		}
		out = append(out, &Result{Article: a, Score: h.Score})
	}
	return out, nil
}

func (x *Index) DocCount() (int, error) {
	n, err := x.idx.DocCount()
	return int(n), err
}

func (x *Index) Close() error {
	return x.idx.Close()
}

func docID(id int64) string { return "article:" + strconv.FormatInt(id, 10) }

// tokenize lowercases and splits on anything that is not a letter or digit.
func tokenize(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) >= 2 {
			out = append(out, f)
		}
	}
	return out
}
