package cleanup

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/toothbrush/confluence-pmc-data/confluence"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/exp/maps"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultWorkers    = 5
	DefaultTitleToken = "locust"

	searchTimeout = 30 * time.Second
)

// API is the slice of the Confluence client the deleter needs.
type API interface {
	SearchContent(ctx context.Context, opts confluence.ContentSearchQuery) (*confluence.ContentSearchResponse, error)
	DeleteContent(ctx context.Context, opts confluence.DeleteContentQuery) error
}

var _ API = (*confluence.API)(nil)

type Deleter struct {
	API API

	// Number of concurrent deletions per batch.
	Workers int

	// Pages are only deleted when their title matches this token, so that we don't wipe
	// content the load test didn't create.
	TitleToken string

	// Search and report, but don't delete anything.
	DryRun bool

	// Where to draw progress bars; nil disables them.
	Progress io.Writer

	Logger   *log.Logger
	loggerMu sync.Mutex
}

// Run deletes up to limit items of every content type, one type at a time.  Comments go first
// because they hang off pages and blogposts.  Each batch is fully drained before the next type
// is searched.
func (d *Deleter) Run(ctx context.Context, limit int, after time.Time) ([]Summary, error) {
	summaries := []Summary{}
	for _, contentType := range confluence.CleanupOrder {
		summary, err := d.DeleteContent(ctx, contentType, limit, after)
		summaries = append(summaries, summary)
		if err != nil {
			return summaries, fmt.Errorf("cleanup: failed deleting %ss: %w", contentType, err)
		}
	}
	return summaries, nil
}

// DeleteContent finds the newest limit items of contentType (created on or after `after`, if
// set) and deletes them.  A non-positive limit is a no-op that touches nothing.
func (d *Deleter) DeleteContent(ctx context.Context, contentType confluence.ContentType, limit int, after time.Time) (Summary, error) {
	cql := BuildCQL(contentType, d.titleToken(), after)
	summary := Summary{ContentType: contentType, CQL: cql, DryRun: d.DryRun}

	if limit <= 0 {
		return summary, nil
	}

	ids, err := d.findContent(ctx, cql, limit)
	if err != nil {
		return summary, err
	}
	d.logf("Found %d %s for deletion\n", len(ids), contentType)

	if d.DryRun {
		summary.Found = len(ids)
		for _, id := range ids {
			d.logf("Would delete %s with ID %s\n", contentType, id)
		}
		return summary, nil
	}

	batch, err := d.deleteBatch(ctx, contentType, ids)
	batch.CQL = cql
	return batch, err
}

func (d *Deleter) findContent(ctx context.Context, cql string, limit int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	res, err := d.API.SearchContent(ctx, confluence.ContentSearchQuery{
		CQL:   cql,
		Start: 0,
		Limit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("cleanup: content search failed: %w", err)
	}

	// weed out dupes, so no id is queued twice
	found := make(map[string]confluence.Content, len(res.Results))
	for _, c := range res.Results {
		if c.ID == "" {
			continue
		}
		found[c.ID] = c
	}
	ids := maps.Keys(found)
	sort.Strings(ids)

	return ids, nil
}

// deleteBatch fans ids out over a fixed number of workers and only returns once every id has
// been acknowledged (or the context was cancelled).  Per-item failures never stop the batch.
func (d *Deleter) deleteBatch(ctx context.Context, contentType confluence.ContentType, ids []string) (Summary, error) {
	summary := Summary{ContentType: contentType, Found: len(ids)}
	if len(ids) == 0 {
		return summary, nil
	}

	// the whole batch fits, so enqueueing never blocks.
	queue := make(chan string, len(ids))
	for _, id := range ids {
		queue <- id
	}
	// nothing else is coming: a closed, drained queue tells every worker to go home.
	close(queue)

	results := make(chan itemResult, len(ids))
	progress, bar := d.progressBar(contentType, len(ids))

	grp, gctx := errgroup.WithContext(ctx)
	for i := 0; i < d.workers(); i++ {
		grp.Go(func() error {
			for {
				select {
				case id, ok := <-queue:
					if !ok {
						return nil
					}
					if gctx.Err() != nil {
						return context.Cause(gctx)
					}
					results <- d.deleteOne(gctx, contentType, id)
					if bar != nil {
						bar.Increment()
					}

				case <-gctx.Done():
					return context.Cause(gctx)
				}
			}
		})
	}

	// Wait for all workers to return:
	err := grp.Wait()
	close(results)

	if progress != nil {
		if !bar.Completed() {
			bar.Abort(false)
		}
		progress.Wait()
	}

	for r := range results {
		summary.record(r)
	}

	if err != nil {
		return summary, fmt.Errorf("cleanup: interrupted after %d of %d %ss: %w", summary.Acknowledged, len(ids), contentType, err)
	}
	if summary.Acknowledged != len(ids) {
		return summary, fmt.Errorf("cleanup: only %d of %d %ss were processed", summary.Acknowledged, len(ids), contentType)
	}

	return summary, nil
}

// deleteOne trashes an item and then purges it from the trash.  Comments are deleted outright, so
// they skip the purge.
func (d *Deleter) deleteOne(ctx context.Context, contentType confluence.ContentType, id string) itemResult {
	err := d.API.DeleteContent(ctx, confluence.DeleteContentQuery{ID: id})
	if err != nil {
		failure := newFailure(id, TrashPhase, err)
		d.logf("Deletion of content with ID %s failed. %s\n", id, failure.describe())
		return itemResult{id: id, outcome: DeleteFailed, failure: &failure}
	}

	if contentType == confluence.CommentContent {
		d.logf("Deleted comment with ID %s\n", id)
		return itemResult{id: id, outcome: Deleted}
	}

	err = d.API.DeleteContent(ctx, confluence.DeleteContentQuery{ID: id, Status: "trashed"})
	if err != nil {
		failure := newFailure(id, PurgePhase, err)
		d.logf("Purging of trashed %s with ID %s failed. %s\n", contentType, id, failure.describe())
		return itemResult{id: id, outcome: PurgeFailed, failure: &failure}
	}

	d.logf("Purged %s with ID %s\n", contentType, id)
	return itemResult{id: id, outcome: Purged}
}

func (d *Deleter) progressBar(contentType confluence.ContentType, total int) (*mpb.Progress, *mpb.Bar) {
	if d.Progress == nil {
		return nil, nil
	}

	p := mpb.New(
		mpb.WithWidth(64),
		mpb.WithOutput(d.Progress),
		mpb.WithAutoRefresh(),
	)

	bar := p.AddBar(int64(total),
		mpb.PrependDecorators(
			// display our name with one space on the right
			decor.Name(fmt.Sprintf("%ss:", contentType),
				decor.WC{C: decor.DindentRight | decor.DextraSpace}),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d/%d) "),
			decor.NewPercentage("%d"),
			decor.Spinner([]string{" /", " -", " \\", " |"}),
		),
	)

	return p, bar
}

func (d *Deleter) workers() int {
	if d.Workers < 1 {
		return DefaultWorkers
	}
	return d.Workers
}

func (d *Deleter) titleToken() string {
	if d.TitleToken == "" {
		return DefaultTitleToken
	}
	return d.TitleToken
}

func (d *Deleter) logf(format string, a ...any) {
	if d.Logger == nil {
		return
	}
	d.loggerMu.Lock()
	defer d.loggerMu.Unlock()
	d.Logger.Printf(format, a...)
}
