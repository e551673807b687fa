package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pders01/helpw/internal/helpcenter"
)

type SectionNode struct {
	Section  helpcenter.Section
	Articles []helpcenter.Article
}

type CategoryNode struct {
	Category helpcenter.Category
	Sections []SectionNode
}

// CrawlStats summarizes a crawl.
type CrawlStats struct {
	Categories int
	Sections   int
	Articles   int
}

// Tree walks categories and their sections, and with withArticles also every
// section's articles. Requests run concurrently up to concurrency at a time;
// the result keeps the API's order at every level.
func (s *Service) Tree(ctx context.Context, withArticles bool, concurrency int) ([]CategoryNode, error) {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	cats, err := s.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	tree := make([]CategoryNode, len(cats))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, cat := range cats {
		tree[i].Category = cat
		g.Go(func() error {
			secs, err := s.ListSections(gctx, cat.ID)
			if err != nil {
				return fmt.Errorf("listing sections of category %d: %w", cat.ID, err)
			}
			nodes := make([]SectionNode, len(secs))
			for j, sec := range secs {
				nodes[j].Section = sec
			}
			tree[i].Sections = nodes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !withArticles {
		return tree, nil
	}

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range tree {
		for j := range tree[i].Sections {
			node := &tree[i].Sections[j]
			g.Go(func() error {
				arts, err := s.ListSectionArticles(gctx, node.Section.ID)
				if err != nil {
					return fmt.Errorf("listing articles of section %d: %w", node.Section.ID, err)
				}
				node.Articles = arts
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tree, nil
}

// Crawl fetches every article of every section, which also feeds the index.
func (s *Service) Crawl(ctx context.Context, concurrency int) (CrawlStats, error) {
	tree, err := s.Tree(ctx, true, concurrency)
	if err != nil {
		return CrawlStats{}, err
	}

	var stats CrawlStats
	stats.Categories = len(tree)
	for _, c := range tree {
		stats.Sections += len(c.Sections)
		for _, sec := range c.Sections {
			stats.Articles += len(sec.Articles)
		}
	}
	return stats, nil
}
