package pmcdata

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/toothbrush/confluence-pmc-data/confluence"
)

// pagesWithMacroCQL selects prepared PMC pages containing macro.  The title token keeps the demo
// space out, its pages can contain more than one macro.  Without an explicit space the blueprint
// space (tests create content in it) and the mass data spaces (several macros per page) are
// excluded.
func (s Settings) pagesWithMacroCQL(macro string, spaceKey string) string {
	cql := fmt.Sprintf(`type=page and title ~ %s and macro = "%s"`, s.PageTitleToken, macro)
	if spaceKey != "" {
		return cql + " and space = " + spaceKey
	}

	// CQL fails, or returns nothing, when either of these spaces is missing.
	cql += " and space != " + s.BlueprintSpaceKey
	cql += " and space.title !~ " + s.MassDataTitleToken
	return cql
}

func (p *Preparer) pagesWithMacro(ctx context.Context, macro string, spaceKey string, expand string) ([]confluence.Content, error) {
	res, err := p.API.SearchContent(ctx, confluence.ContentSearchQuery{
		CQL:    p.Settings.pagesWithMacroCQL(macro, spaceKey),
		Start:  0,
		Limit:  p.Settings.SampleSize,
		Expand: expand,
	})
	if err != nil {
		return nil, fmt.Errorf("pmcdata: search for pages with macro %s failed: %w", macro, err)
	}

	if len(res.Results) == 0 {
		return nil, preconditionf("macro pages",
			"There is no page with macro %s in Confluence. You might have to import a prepared space export or "+
				"your search index is broken", macro)
	}

	return res.Results, nil
}

func (p *Preparer) harvestMacroPages(ctx context.Context, macro Macro) ([]PageRow, error) {
	pages, err := p.pagesWithMacro(ctx, macro.String(), "", "space")
	if err != nil {
		return nil, err
	}

	rows := make([]PageRow, 0, len(pages))
	for _, page := range pages {
		rows = append(rows, PageRow{ID: page.ID, SpaceKey: page.SpaceKey()})
	}

	p.logf("Sampled %d pages with macro %s\n", len(rows), macro)
	return rows, nil
}

func (p *Preparer) harvestCommentAggregation(ctx context.Context) ([]CommentAggregationRow, error) {
	key := p.Settings.CommentAggregationSpaceKey
	err := p.assertSpaceExists(ctx, "comment aggregation", key,
		fmt.Sprintf("Space with key %s does not exist. Please import the prepared space export.", key))
	if err != nil {
		return nil, err
	}

	pages, err := p.pagesWithMacro(ctx, p.Settings.CommentAggregationMacro, key, "space,body.storage")
	if err != nil {
		return nil, err
	}

	rows := make([]CommentAggregationRow, 0, len(pages))
	for _, page := range pages {
		rows = append(rows, CommentAggregationRow{
			PageRow: PageRow{ID: page.ID, SpaceKey: page.SpaceKey()},
			Mode:    commentMode(page.StorageValue(), p.Settings.UnresolvedMarker),
		})
	}

	p.logf("Sampled %d comment aggregation pages\n", len(rows))
	return rows, nil
}

// commentMode tells whether the aggregation macro on a page shows unresolved comments.  The marker
// may be split over several elements of the storage format, so the rendered text is checked as
// well as the raw body.
func commentMode(body string, marker string) CommentMode {
	if strings.Contains(body, marker) {
		return Unresolved
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return Resolved
	}
	text := strings.Join(strings.Fields(doc.Text()), " ")
	if strings.Contains(text, marker) {
		return Unresolved
	}

	return Resolved
}
