package reports

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	domain "github.com/veridianlabs/esg-intel/internal/domain/analysis"
	"github.com/veridianlabs/esg-intel/internal/domain/apperr"
	"github.com/veridianlabs/esg-intel/internal/domain/catalog"
)

type fakeArchive struct {
	key  string
	data []byte
}

func (f *fakeArchive) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	f.key = key
	f.data = data
	return "http://store/" + key, nil
}

func TestExportCSVColumns(t *testing.T) {
	repo := &fakeRepo{}
	a := analysisAt("u1", "Acme", 72.5, time.Hour)
	a.IndustrySector = "Technology"
	a.ReportingPeriod = "2025"
	a.Frameworks = []catalog.Framework{catalog.FrameworkCSRD, catalog.FrameworkTCFD}
	repo.analyses = append(repo.analyses, a)
	s := newReportsService(repo)

	res, err := s.Export(context.Background(), freeUser(), "csv", nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.ContentType != "text/csv" {
		t.Errorf("content type=%s", res.ContentType)
	}

	records, err := csv.NewReader(strings.NewReader(string(res.Body))).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("rows=%d, want header + 1", len(records))
	}

	wantHeader := "analysis_id,created_at,company_name,industry_sector,reporting_period,environmental,social,governance,overall,frameworks,coverage_avg"
	if got := strings.Join(records[0], ","); got != wantHeader {
		t.Errorf("header=%s\nwant  %s", got, wantHeader)
	}

	row := records[1]
	if row[2] != "Acme" || row[3] != "Technology" || row[4] != "2025" {
		t.Errorf("row=%v", row)
	}
	if row[8] != "72.5" {
		t.Errorf("overall=%s, want 72.5", row[8])
	}
	if row[9] != "CSRD;TCFD" {
		t.Errorf("frameworks=%s, want CSRD;TCFD", row[9])
	}
	if row[10] != "40.0" {
		t.Errorf("coverage_avg=%s, want 40.0", row[10])
	}
}

func TestExportJSON(t *testing.T) {
	repo := &fakeRepo{}
	repo.analyses = append(repo.analyses, analysisAt("u1", "Acme", 60, time.Hour))
	s := newReportsService(repo)

	res, err := s.Export(context.Background(), freeUser(), "json", nil)
	if err != nil {
		t.Fatal(err)
	}
	var payload struct {
		Data []*domain.Analysis `json:"data"`
	}
	if err := json.Unmarshal(res.Body, &payload); err != nil {
		t.Fatal(err)
	}
	if len(payload.Data) != 1 || payload.Data[0].CompanyName != "Acme" {
		t.Errorf("payload: %+v", payload)
	}
}

func TestExportInvalidFormat(t *testing.T) {
	s := newReportsService(&fakeRepo{})
	_, err := s.Export(context.Background(), freeUser(), "xml", nil)
	if err == nil || apperr.From(err).Kind != apperr.KindInput {
		t.Errorf("expected input error, got %v", err)
	}
}

func TestExportArchives(t *testing.T) {
	repo := &fakeRepo{}
	repo.analyses = append(repo.analyses, analysisAt("u1", "Acme", 60, time.Hour))
	s := newReportsService(repo)
	store := &fakeArchive{}

	res, err := s.Export(context.Background(), freeUser(), "csv", store)
	if err != nil {
		t.Fatal(err)
	}
	if res.ArchiveURL == "" || store.key == "" {
		t.Error("export should be archived when a store is wired")
	}
	if string(store.data) != string(res.Body) {
		t.Error("archived bytes must match the response body")
	}
}

func TestExportDailyRateWindow(t *testing.T) {
	repo := &fakeRepo{}
	s := newReportsService(repo)
	s.Governor.RateOverrides = map[string]int{"export:free": 1}

	if _, err := s.Export(context.Background(), freeUser(), "json", nil); err != nil {
		t.Fatal(err)
	}
	_, err := s.Export(context.Background(), freeUser(), "json", nil)
	if err == nil {
		t.Fatal("second export should hit the daily limit")
	}
	if apperr.From(err).Kind != apperr.KindRateLimited {
		t.Errorf("kind=%s, want rate_limited", apperr.From(err).Kind)
	}
}
