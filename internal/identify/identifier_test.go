package identify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dailyworker-news/DWnews-sub003/internal/model"
	"github.com/dailyworker-news/DWnews-sub003/internal/search"
)

type fakeProvider struct {
	results map[string][]search.Result // terms -> results
	err     error
	queries []string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Search(ctx context.Context, q search.Query) ([]search.Result, error) {
	f.queries = append(f.queries, q.Terms)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[q.Terms], nil
}

func searcherOver(p search.Provider) *search.MultiSearcher {
	return search.NewMultiSearcher([]search.Provider{p}, time.Second)
}

func TestIdentifier_BuildQueries_Budget(t *testing.T) {
	topic := model.Topic{Title: "warehouse walkout", Regional: true, Region: "Ohio"}

	full := New(searcherOver(&fakeProvider{}), 5, 20).BuildQueries(topic)
	if len(full) != 5 {
		t.Errorf("expected 5 queries with budget 5 for a regional topic, got %d", len(full))
	}

	// A reduced budget keeps the most authoritative templates.
	reduced := New(searcherOver(&fakeProvider{}), 2, 20).BuildQueries(topic)
	if len(reduced) != 2 {
		t.Fatalf("expected 2 queries with budget 2, got %d", len(reduced))
	}
	if reduced[0].Terms != `"warehouse walkout" official statement OR government filing` {
		t.Errorf("first query should target official material, got %q", reduced[0].Terms)
	}
	if reduced[1].Terms != `"warehouse walkout" study OR peer-reviewed OR journal` {
		t.Errorf("second query should target academic material, got %q", reduced[1].Terms)
	}
}

func TestIdentifier_BuildQueries_NonRegionalSkipsLocalQuery(t *testing.T) {
	queries := New(searcherOver(&fakeProvider{}), 5, 20).BuildQueries(model.Topic{Title: "port strike"})
	if len(queries) != 4 {
		t.Errorf("non-regional topic should produce 4 queries, got %d", len(queries))
	}
}

func TestIdentifier_Identify_DeduplicatesAcrossQueries(t *testing.T) {
	title := "warehouse walkout"
	dup := search.Result{URL: "https://apnews.com/article/1", Provider: "fake"}
	p := &fakeProvider{results: map[string][]search.Result{
		`"warehouse walkout" official statement OR government filing`: {dup},
		title: {dup, {URL: "https://apnews.com/article/1#section", Provider: "fake"},
			{URL: "https://reuters.com/article/2", Provider: "fake"}},
	}}

	sources, err := New(searcherOver(p), 5, 20).Identify(context.Background(), model.Topic{ID: "t1", Title: title})
	if err != nil {
		t.Fatal(err)
	}
	// Fragment-only variants collapse with the canonical URL.
	if len(sources) != 2 {
		t.Errorf("expected 2 deduplicated sources, got %d: %+v", len(sources), sources)
	}
}

func TestIdentifier_Identify_TotalWipeoutIsError(t *testing.T) {
	p := &fakeProvider{err: errors.New("every engine down")}

	_, err := New(searcherOver(p), 5, 20).Identify(context.Background(), model.Topic{ID: "t1", Title: "x"})
	if err == nil {
		t.Fatal("expected an error when every query fails")
	}
}
