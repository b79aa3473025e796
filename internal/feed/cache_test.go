package feed_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"jobmate/board-service/internal/feed"
	"jobmate/board-service/internal/model"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

// listJobs decodes listBody the way the REST client does.
func listJobs(t *testing.T) []model.Job {
	t.Helper()
	var resp struct {
		Jobs []model.Job `json:"jobs"`
	}
	if err := json.Unmarshal([]byte(listBody), &resp); err != nil {
		t.Fatalf("decode listBody: %v", err)
	}
	return resp.Jobs
}

type failingSource struct{ err error }

func (s failingSource) Jobs(context.Context) ([]model.Job, error) { return nil, s.err }

func TestCachedSource_MissStoresThenHits(t *testing.T) {
	mr, rdb := newRedis(t)
	up := &countingSource{jobs: listJobs(t)}
	src := feed.NewCachedSource(up, rdb, time.Minute)
	ctx := context.Background()

	if _, err := src.Jobs(ctx); err != nil {
		t.Fatalf("first Jobs: %v", err)
	}
	if !mr.Exists(feed.DefaultCacheKey) {
		t.Fatal("snapshot not written after an upstream fetch")
	}
	if ttl := mr.TTL(feed.DefaultCacheKey); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}

	jobs, err := src.Jobs(ctx)
	if err != nil {
		t.Fatalf("second Jobs: %v", err)
	}
	if up.calls != 1 {
		t.Errorf("upstream calls = %d, want 1", up.calls)
	}
	if len(jobs) != 2 || jobs[0].ID != "a" || jobs[0].Salary.Max != 900000 {
		t.Errorf("cached jobs = %+v", jobs)
	}
}

func TestCachedSource_ZeroTTLNeverExpires(t *testing.T) {
	mr, rdb := newRedis(t)
	src := feed.NewCachedSource(&countingSource{jobs: listJobs(t)}, rdb, -time.Second)
	if _, err := src.Jobs(context.Background()); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL(feed.DefaultCacheKey); ttl != 0 {
		t.Errorf("TTL = %v, want none", ttl)
	}
}

func TestCachedSource_Expiry(t *testing.T) {
	mr, rdb := newRedis(t)
	up := &countingSource{jobs: listJobs(t)}
	src := feed.NewCachedSource(up, rdb, time.Minute)
	ctx := context.Background()

	_, _ = src.Jobs(ctx)
	mr.FastForward(2 * time.Minute)
	_, _ = src.Jobs(ctx)
	if up.calls != 2 {
		t.Errorf("upstream calls = %d, want 2 after expiry", up.calls)
	}
}

func TestCachedSource_Invalidate(t *testing.T) {
	mr, rdb := newRedis(t)
	up := &countingSource{jobs: listJobs(t)}
	src := feed.NewCachedSource(up, rdb, time.Minute)
	ctx := context.Background()

	_, _ = src.Jobs(ctx)
	if err := src.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if mr.Exists(feed.DefaultCacheKey) {
		t.Error("snapshot still cached after Invalidate")
	}
	_, _ = src.Jobs(ctx)
	if up.calls != 2 {
		t.Errorf("upstream calls = %d, want 2", up.calls)
	}
	if err := src.Invalidate(ctx); err != nil {
		t.Errorf("Invalidate on a present key: %v", err)
	}
}

func TestCachedSource_UndecodableEntryIsReplaced(t *testing.T) {
	mr, rdb := newRedis(t)
	mr.Set(feed.DefaultCacheKey, "not json")
	up := &countingSource{jobs: listJobs(t)}
	src := feed.NewCachedSource(up, rdb, time.Minute)

	jobs, err := src.Jobs(context.Background())
	if err != nil {
		t.Fatalf("Jobs: %v", err)
	}
	if up.calls != 1 || len(jobs) != 2 {
		t.Errorf("Jobs() = %d jobs after %d upstream calls", len(jobs), up.calls)
	}
	raw, _ := mr.Get(feed.DefaultCacheKey)
	if !json.Valid([]byte(raw)) {
		t.Errorf("cache entry not rewritten: %q", raw)
	}
}

func TestCachedSource_UpstreamErrorNotCached(t *testing.T) {
	mr, rdb := newRedis(t)
	cause := errors.New("api down")
	src := feed.NewCachedSource(failingSource{err: cause}, rdb, time.Minute)

	if _, err := src.Jobs(context.Background()); !errors.Is(err, cause) {
		t.Fatalf("Jobs() error = %v, want %v", err, cause)
	}
	if mr.Exists(feed.DefaultCacheKey) {
		t.Error("failed fetch was cached")
	}
}

func TestCachedSource_MalformedSalarySurvivesCache(t *testing.T) {
	_, rdb := newRedis(t)
	up := &countingSource{jobs: listJobs(t)}
	src := feed.NewCachedSource(up, rdb, time.Minute)
	ctx := context.Background()

	_, _ = src.Jobs(ctx)
	jobs, err := src.Jobs(ctx)
	if err != nil || up.calls != 1 {
		t.Fatalf("Jobs() from cache: err=%v upstream calls=%d", err, up.calls)
	}

	bad := jobs[1]
	if bad.ID != "b" || bad.HasSalary() || !errors.Is(bad.SalaryErr, model.ErrMalformedSalary) {
		t.Fatalf("cached record = %+v, want malformed salary kept", bad)
	}
	out, _ := json.Marshal(bad)
	if !strings.Contains(string(out), `"salaryRange":"abc"`) {
		t.Errorf("re-encoded record = %s, want the original salary text", out)
	}
}
