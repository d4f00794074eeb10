package slugs

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/goliatone/go-agency/pkg/interfaces"
)

type fakeStore struct {
	records   map[string][]interfaces.Record
	queries   []interfaces.QueryOptions
	patches   []patchCall
	failPatch map[string]error
	queryErr  error
}

type patchCall struct {
	collection string
	id         string
	fields     map[string]any
}

func newFakeStore(collection string, records ...interfaces.Record) *fakeStore {
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return &fakeStore{records: map[string][]interfaces.Record{collection: records}}
}

func (s *fakeStore) Query(_ context.Context, collection string, opts interfaces.QueryOptions) ([]interfaces.Record, error) {
	s.queries = append(s.queries, opts)
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	all := s.records[collection]
	if opts.Offset >= len(all) {
		return nil, nil
	}
	end := len(all)
	if opts.Limit > 0 && opts.Offset+opts.Limit < end {
		end = opts.Offset + opts.Limit
	}
	out := make([]interfaces.Record, 0, end-opts.Offset)
	for _, record := range all[opts.Offset:end] {
		fields := make(map[string]any, len(record.Fields))
		for k, v := range record.Fields {
			fields[k] = v
		}
		out = append(out, interfaces.Record{ID: record.ID, Fields: fields})
	}
	return out, nil
}

func (s *fakeStore) Patch(_ context.Context, collection, id string, fields map[string]any) error {
	if err := s.failPatch[id]; err != nil {
		return err
	}
	s.patches = append(s.patches, patchCall{collection: collection, id: id, fields: fields})
	for i, record := range s.records[collection] {
		if record.ID == id {
			for k, v := range fields {
				s.records[collection][i].Fields[k] = v
			}
		}
	}
	return nil
}

func artist(id, name string, slug any) interfaces.Record {
	fields := map[string]any{"name": name}
	if slug != nil {
		fields["slug"] = slug
	}
	return interfaces.Record{ID: id, Fields: fields}
}

func outcomeFor(t *testing.T, report Report, id string) Outcome {
	t.Helper()
	for _, outcome := range report.Outcomes {
		if outcome.ID == id {
			return outcome
		}
	}
	t.Fatalf("no outcome for %s in %+v", id, report.Outcomes)
	return Outcome{}
}

func TestBackfillAssignsMissingSlugs(t *testing.T) {
	store := newFakeStore("artists",
		artist("1", "Maurice Steger", nil),
		artist("2", "Dorothee Oberlinger", "dorothee-oberlinger"),
		artist("3", "Künstlersekretariat Astrid Schörke", ""),
	)

	report, err := NewBackfiller(store, WithPageSize(2)).Run(context.Background(), Request{Collection: "artists"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Scanned != 3 || report.Updated != 2 || report.Skipped != 0 || report.Failed != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	if got := outcomeFor(t, report, "3").Slug; got != "k-nstlersekretariat-astrid-sch-rke" {
		t.Fatalf("unexpected slug %q", got)
	}
	if len(store.patches) != 2 {
		t.Fatalf("expected 2 patches, got %d", len(store.patches))
	}
	if store.patches[0].fields["slug"] != "maurice-steger" {
		t.Fatalf("unexpected patch %+v", store.patches[0])
	}
	if len(store.queries) != 2 || store.queries[1].Offset != 2 {
		t.Fatalf("expected two paged queries, got %+v", store.queries)
	}
}

func TestBackfillSkipsEmptyAndCollidingSlugs(t *testing.T) {
	store := newFakeStore("employees",
		artist("1", "---", nil),
		artist("2", "Maurice Steger", "maurice-steger"),
		artist("3", "MAURICE  STEGER", nil),
		artist("4", "", nil),
		artist("5", "Anna Müller", nil),
		artist("6", "Anna M?ller", nil),
	)

	report, err := NewBackfiller(store).Run(context.Background(), Request{Collection: "employees"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	cases := map[string]string{
		"1": ReasonEmptySlug,
		"3": ReasonCollision,
		"4": ReasonNoSource,
		"6": ReasonCollision,
	}
	for id, reason := range cases {
		outcome := outcomeFor(t, report, id)
		if outcome.Status != StatusSkipped || outcome.Reason != reason {
			t.Fatalf("record %s: expected skipped/%s, got %+v", id, reason, outcome)
		}
	}
	if outcome := outcomeFor(t, report, "5"); outcome.Status != StatusUpdated || outcome.Slug != "anna-m-ller" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if report.Updated != 1 || report.Skipped != 4 {
		t.Fatalf("unexpected counts %+v", report)
	}
}

func TestBackfillContinuesAfterFailedWrite(t *testing.T) {
	store := newFakeStore("artists",
		artist("1", "Alpha", nil),
		artist("2", "Beta", nil),
	)
	store.failPatch = map[string]error{"1": errors.New("disk full")}

	report, err := NewBackfiller(store).Run(context.Background(), Request{Collection: "artists"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	failed := outcomeFor(t, report, "1")
	if failed.Status != StatusFailed || failed.Reason != ReasonStoreError || failed.Err == nil {
		t.Fatalf("unexpected failed outcome %+v", failed)
	}
	if report.Failed != 1 || report.Updated != 1 || report.Succeeded() != 1 {
		t.Fatalf("unexpected counts %+v", report)
	}

	encoded, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(encoded), `"error":"`) || !strings.Contains(string(encoded), "disk full") {
		t.Fatalf("expected the write error in the JSON report, got %s", encoded)
	}
}

func TestBackfillIsRerunnable(t *testing.T) {
	store := newFakeStore("artists",
		artist("1", "Alpha", nil),
		artist("2", "Beta", nil),
	)
	store.failPatch = map[string]error{"2": errors.New("timeout")}
	backfiller := NewBackfiller(store)

	if _, err := backfiller.Run(context.Background(), Request{Collection: "artists"}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	store.failPatch = nil
	report, err := backfiller.Run(context.Background(), Request{Collection: "artists"})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if report.Updated != 1 || len(report.Outcomes) != 1 || report.Outcomes[0].ID != "2" {
		t.Fatalf("expected only the failed record to be retried, got %+v", report)
	}

	report, err = backfiller.Run(context.Background(), Request{Collection: "artists"})
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if len(report.Outcomes) != 0 || report.Scanned != 2 {
		t.Fatalf("expected a no-op run, got %+v", report)
	}
}

func TestBackfillDryRunDoesNotWrite(t *testing.T) {
	store := newFakeStore("news", artist("1", "Neue CD erschienen", nil))
	report, err := NewBackfiller(store).Run(context.Background(), Request{
		Collection:  "news",
		SourceField: "name",
		DryRun:      true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(store.patches) != 0 {
		t.Fatalf("expected no writes, got %+v", store.patches)
	}
	if !report.DryRun || report.Updated != 1 || report.Outcomes[0].Slug != "neue-cd-erschienen" {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestBackfillCustomFields(t *testing.T) {
	store := newFakeStore("recordings", interfaces.Record{ID: "r1", Fields: map[string]any{"title": []byte("Vivaldi: Concerti")}})
	report, err := NewBackfiller(store).Run(context.Background(), Request{
		Collection:  "recordings",
		SourceField: "title",
		SlugField:   "handle",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Updated != 1 || store.patches[0].fields["handle"] != "vivaldi-concerti" {
		t.Fatalf("unexpected result %+v %+v", report, store.patches)
	}
}

func TestBackfillQueryErrorAborts(t *testing.T) {
	store := newFakeStore("artists")
	store.queryErr = errors.New("connection refused")
	if _, err := NewBackfiller(store).Run(context.Background(), Request{Collection: "artists"}); err == nil {
		t.Fatal("expected query error")
	}
}

func TestBackfillRequiresStore(t *testing.T) {
	if _, err := NewBackfiller(nil).Run(context.Background(), Request{Collection: "artists"}); !errors.Is(err, ErrStoreRequired) {
		t.Fatalf("expected ErrStoreRequired, got %v", err)
	}
}

func TestBackfillHonoursCancellation(t *testing.T) {
	store := newFakeStore("artists", artist("1", "Alpha", nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewBackfiller(store).Run(ctx, Request{Collection: "artists"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
