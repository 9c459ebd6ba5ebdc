package crawl

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/harvester/pkg/model"
)

func TestDistinctByEmail(t *testing.T) {
	people := []model.Author{
		{Email: "a@x.com", Name: "author"},
		{Email: "a@x.com", Name: "publisher"},
		{Email: ""},
		{Email: "b@x.com"},
		{Email: "a@x.com", Name: "maintainer"},
	}

	got := DistinctByEmail(people)
	if len(got) != 2 {
		t.Fatalf("DistinctByEmail() = %d people, want 2", len(got))
	}
	if got[0].Name != "author" || got[1].Email != "b@x.com" {
		t.Errorf("DistinctByEmail() = %+v, want first occurrence kept in order", got)
	}
}

func TestProfileDefaults(t *testing.T) {
	p := Profile{Delay: -time.Second}.withDefaults()
	if p.BatchSize != 10 || p.Concurrency != 1 || p.Delay != 0 {
		t.Errorf("withDefaults() = %+v", p)
	}

	p = Profile{BatchSize: 3, Concurrency: 4}.withDefaults()
	if p.BatchSize != 3 || p.Concurrency != 4 {
		t.Errorf("withDefaults() overrode explicit values: %+v", p)
	}
}

func TestResolveHits(t *testing.T) {
	hits := []Hit{{Ref: "a"}, {Ref: "fail"}, {Ref: "b"}, {Ref: "drop"}, {Ref: "c"}}
	src := &enrichingSource{
		fakeSource: newFakeSource(Profile{Source: model.SourceGitHub}),
		enrich: func(h Hit) (*Item, error) {
			switch h.Ref {
			case "fail":
				return nil, errBoom
			case "drop":
				return nil, nil
			}
			return &Item{Publication: h.Ref}, nil
		},
	}

	items := resolveHits(context.Background(), src, hits, 3, quietLogger())
	var names []string
	for _, it := range items {
		names = append(names, it.Publication)
	}
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Errorf("resolved = %v, want [a b c]", names)
	}
}

func TestResolveHitsWithoutEnricher(t *testing.T) {
	src := newFakeSource(Profile{Source: model.SourceNPM})
	hits := []Hit{itemHit("one", nil), {Ref: "bare"}, itemHit("two", nil)}

	items := resolveHits(context.Background(), src, hits, 1, quietLogger())
	if len(items) != 2 || items[0].Publication != "one" || items[1].Publication != "two" {
		t.Errorf("resolved = %+v", items)
	}
}
