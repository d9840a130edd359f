package cleanup_test

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toothbrush/confluence-pmc-data/cleanup"
	"github.com/toothbrush/confluence-pmc-data/confluence"
	"github.com/toothbrush/confluence-pmc-data/internal/confluencetest"
)

// stubAPI hands out a fixed list of ids and counts concurrent deletions.
type stubAPI struct {
	ids   []string
	delay time.Duration
	block bool

	inFlight    atomic.Int32
	maxInFlight atomic.Int32

	mu      sync.Mutex
	deletes map[string]int
	purges  map[string]int
}

func newStubAPI(n int) *stubAPI {
	s := &stubAPI{deletes: map[string]int{}, purges: map[string]int{}}
	for i := 0; i < n; i++ {
		s.ids = append(s.ids, fmt.Sprintf("%d", 100+i))
	}
	return s
}

func (s *stubAPI) SearchContent(ctx context.Context, opts confluence.ContentSearchQuery) (*confluence.ContentSearchResponse, error) {
	res := &confluence.ContentSearchResponse{}
	for _, id := range s.ids {
		if len(res.Results) >= opts.Limit {
			break
		}
		res.Results = append(res.Results, confluence.Content{ID: id})
	}
	return res, nil
}

func (s *stubAPI) DeleteContent(ctx context.Context, opts confluence.DeleteContentQuery) error {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		m := s.maxInFlight.Load()
		if n <= m || s.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}

	if s.block {
		<-ctx.Done()
		return ctx.Err()
	}
	time.Sleep(s.delay)

	s.mu.Lock()
	defer s.mu.Unlock()
	if opts.Status == "trashed" {
		s.purges[opts.ID]++
	} else {
		s.deletes[opts.ID]++
	}
	return nil
}

func TestBuildCQL(t *testing.T) {
	t.Parallel()

	after := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		contentType confluence.ContentType
		after       time.Time
		want        string
	}{
		{"comment", confluence.CommentContent, time.Time{}, "type = comment order by created desc"},
		{"page gets title filter", confluence.PageContent, time.Time{}, "type = page AND title ~ locust order by created desc"},
		{"blogpost with date", confluence.BlogContent, after, `type = blogpost AND created >= "2024-03-01" order by created desc`},
		{"page with date", confluence.PageContent, after, `type = page AND title ~ locust AND created >= "2024-03-01" order by created desc`},
		{"attachment", confluence.AttachmentContent, time.Time{}, "type = attachment order by created desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanup.BuildCQL(tt.contentType, "locust", tt.after))
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := cleanup.ParseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	d, err = cleanup.ParseDate("2023-11-05")
	require.NoError(t, err)
	assert.Equal(t, time.November, d.Month())

	_, err = cleanup.ParseDate("05.11.2023")
	require.Error(t, err)
}

func TestLimitGuardMakesNoCalls(t *testing.T) {
	t.Parallel()

	fake := confluencetest.NewServer(t)
	fake.AddContents("comment", 3, "comment")
	d := &cleanup.Deleter{API: fake.API(t)}

	for _, limit := range []int{0, -1} {
		summaries, err := d.Run(context.Background(), limit, time.Time{})
		require.NoError(t, err)
		require.Len(t, summaries, 4)
		for _, s := range summaries {
			assert.Zero(t, s.Found)
		}
	}

	assert.Empty(t, fake.Requests())
}

func TestDrainCompleteness(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 4, 17} {
		for _, w := range []int{1, 3, 5, 20} {
			t.Run(fmt.Sprintf("N=%d W=%d", n, w), func(t *testing.T) {
				t.Parallel()

				api := newStubAPI(n)
				api.delay = time.Millisecond
				d := &cleanup.Deleter{API: api, Workers: w}

				summary, err := d.DeleteContent(context.Background(), confluence.PageContent, 100, time.Time{})
				require.NoError(t, err)
				assert.Equal(t, n, summary.Found)
				assert.Equal(t, n, summary.Acknowledged)
				assert.Equal(t, n, summary.Purged)
				assert.LessOrEqual(t, int(api.maxInFlight.Load()), w)

				// every id exactly once
				assert.Len(t, api.deletes, n)
				for id, count := range api.deletes {
					assert.Equal(t, 1, count, id)
				}
			})
		}
	}
}

func TestWorkersRunConcurrently(t *testing.T) {
	t.Parallel()

	api := newStubAPI(20)
	api.delay = 20 * time.Millisecond
	d := &cleanup.Deleter{API: api}

	summary, err := d.DeleteContent(context.Background(), confluence.CommentContent, 20, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 20, summary.Deleted)
	assert.Greater(t, api.maxInFlight.Load(), int32(1))
	assert.LessOrEqual(t, api.maxInFlight.Load(), int32(cleanup.DefaultWorkers))
}

func TestDuplicateIDsAreQueuedOnce(t *testing.T) {
	t.Parallel()

	api := newStubAPI(0)
	api.ids = []string{"1", "2", "1", "3", "2"}
	d := &cleanup.Deleter{API: api, Workers: 2}

	summary, err := d.DeleteContent(context.Background(), confluence.CommentContent, 10, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Found)
	assert.Equal(t, map[string]int{"1": 1, "2": 1, "3": 1}, api.deletes)
}

func TestCommentsSkipPurge(t *testing.T) {
	t.Parallel()

	fake := confluencetest.NewServer(t)
	fake.AddContents("comment", 4, "comment")
	fake.AddContents("blogpost", 3, "blog")
	d := &cleanup.Deleter{API: fake.API(t), Workers: 2}
	ctx := context.Background()

	comments, err := d.DeleteContent(ctx, confluence.CommentContent, 10, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 4, comments.Deleted)
	assert.Zero(t, comments.Purged)
	assert.Equal(t, 4, countDeletes(fake, false))
	assert.Equal(t, 0, countDeletes(fake, true))

	blogs, err := d.DeleteContent(ctx, confluence.BlogContent, 10, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 3, blogs.Purged)
	assert.Equal(t, 7, countDeletes(fake, false))
	assert.Equal(t, 3, countDeletes(fake, true))

	assert.Empty(t, fake.Contents())
	assert.Empty(t, fake.Trashed())
}

func TestFailuresAreRecordedNotFatal(t *testing.T) {
	t.Parallel()

	fake := confluencetest.NewServer(t)
	ids := fake.AddContents("page", 5, "locust page")
	fake.FailDelete(ids[1], http.StatusForbidden)
	fake.FailPurge(ids[3], http.StatusInternalServerError)
	d := &cleanup.Deleter{API: fake.API(t), Workers: 3}

	summary, err := d.DeleteContent(context.Background(), confluence.PageContent, 10, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Acknowledged)
	assert.Equal(t, 4, summary.Deleted)
	assert.Equal(t, 3, summary.Purged)
	require.Len(t, summary.Failures, 2)

	byID := map[string]cleanup.Failure{}
	for _, f := range summary.Failures {
		byID[f.ID] = f
	}
	assert.Equal(t, cleanup.TrashPhase, byID[ids[1]].Phase)
	assert.Equal(t, http.StatusForbidden, byID[ids[1]].StatusCode)
	assert.Equal(t, cleanup.PurgePhase, byID[ids[3]].Phase)
	assert.Equal(t, http.StatusInternalServerError, byID[ids[3]].StatusCode)

	// the failed purge leaves its page in the trash; the failed delete never got there
	assert.Equal(t, []string{ids[3]}, fake.Trashed())
}

func TestPagesNeedTitleToken(t *testing.T) {
	t.Parallel()

	fake := confluencetest.NewServer(t)
	fake.AddContents("page", 2, "locust page")
	fake.AddContents("page", 3, "Important docs")
	d := &cleanup.Deleter{API: fake.API(t)}

	summary, err := d.DeleteContent(context.Background(), confluence.PageContent, 10, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Found)
	assert.Len(t, fake.Contents(), 3)
}

func TestDryRunDeletesNothing(t *testing.T) {
	t.Parallel()

	fake := confluencetest.NewServer(t)
	fake.AddContents("comment", 2, "comment")
	d := &cleanup.Deleter{API: fake.API(t), DryRun: true}

	summaries, err := d.Run(context.Background(), 10, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, summaries[0].Found)
	assert.Zero(t, fake.CountRequests(http.MethodDelete, "/"))
}

func TestCancelledBatchReturns(t *testing.T) {
	t.Parallel()

	api := newStubAPI(10)
	api.block = true
	d := &cleanup.Deleter{API: api, Workers: 2}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	summary, err := d.DeleteContent(ctx, confluence.PageContent, 10, time.Time{})
	require.Error(t, err)
	assert.Less(t, summary.Acknowledged, 10)
}

// The comment, page, blogpost and attachment batches must not overlap: nothing for type i+1 is
// requested before the batch for type i has drained.
func TestRunOrderingAndEndToEnd(t *testing.T) {
	t.Parallel()

	fake := confluencetest.NewServer(t)
	typeOf := map[string]string{}
	for _, seed := range []struct {
		contentType string
		count       int
		title       string
	}{
		{"comment", 5, "comment"},
		{"page", 3, "locust page"},
		{"blogpost", 0, "blog"},
		{"attachment", 2, "file.png"},
	} {
		for _, id := range fake.AddContents(seed.contentType, seed.count, seed.title) {
			typeOf[id] = seed.contentType
		}
	}
	d := &cleanup.Deleter{API: fake.API(t)}

	summaries, err := d.Run(context.Background(), 10, time.Time{})
	require.NoError(t, err)
	require.Len(t, summaries, 4)
	assert.Equal(t, []int{5, 3, 0, 2}, []int{summaries[0].Found, summaries[1].Found, summaries[2].Found, summaries[3].Found})

	// 5 + 3 + 0 + 2 first-phase deletes; everything but comments is purged too
	assert.Equal(t, 10, countDeletes(fake, false))
	assert.Equal(t, 5, countDeletes(fake, true))

	order := map[string]int{"comment": 0, "page": 1, "blogpost": 2, "attachment": 3}
	last := -1
	for _, r := range fake.Requests() {
		var current int
		switch r.Method {
		case http.MethodGet:
			q, err := url.ParseQuery(r.RawQuery)
			require.NoError(t, err)
			var contentType string
			_, err = fmt.Sscanf(q.Get("cql"), "type = %s", &contentType)
			require.NoError(t, err)
			current = order[contentType]
		case http.MethodDelete:
			id := r.Path[len("/rest/api/content/"):]
			current = order[typeOf[id]]
		}
		require.GreaterOrEqual(t, current, last, "request %s %s arrived out of order", r.Method, r.Path)
		last = current
	}
}

func countDeletes(fake *confluencetest.Server, purge bool) int {
	n := 0
	for _, r := range fake.Requests() {
		if r.Method != http.MethodDelete {
			continue
		}
		if (r.RawQuery == "status=trashed") == purge {
			n++
		}
	}
	return n
}
