package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/veridianlabs/esg-intel/internal/application/accounts"
	"github.com/veridianlabs/esg-intel/internal/domain/activity"
	domain "github.com/veridianlabs/esg-intel/internal/domain/analysis"
	"github.com/veridianlabs/esg-intel/internal/domain/apperr"
	"github.com/veridianlabs/esg-intel/internal/domain/users"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

const exportPageSize = 500

// csvColumns is the fixed export column order.
var csvColumns = []string{
	"analysis_id", "created_at", "company_name", "industry_sector",
	"reporting_period", "environmental", "social", "governance",
	"overall", "frameworks", "coverage_avg",
}

// ArchiveStore is the optional object-storage sink for export
// artifacts.
type ArchiveStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
}

// ExportResult carries the rendered export plus its media type.
type ExportResult struct {
	ContentType string
	Filename    string
	Body        []byte
	ArchiveURL  string
}

// Export renders the caller's analyses as JSON or CSV. The export rate
// window is daily.
func (s *Service) Export(ctx context.Context, user *users.User, format string, store ArchiveStore) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatCSV {
		return nil, apperr.Input("invalid format: %s (allowed: json, csv)", format)
	}
	if _, err := s.Governor.CheckRate(ctx, user.ID, user.Tier, accounts.EndpointExport); err != nil {
		return nil, err
	}

	var all []*domain.Analysis
	for page := 1; ; page++ {
		batch, err := s.Repo.ListByUser(ctx, user.ID, page, exportPageSize)
		if err != nil {
			return nil, apperr.Unavailable("analysis store unavailable", err)
		}
		all = append(all, batch...)
		if len(batch) < exportPageSize {
			break
		}
	}

	res := &ExportResult{}
	switch format {
	case FormatJSON:
		body, err := json.Marshal(map[string]any{"data": all})
		if err != nil {
			return nil, apperr.Internal(err)
		}
		res.ContentType = "application/json"
		res.Filename = "esg_analyses.json"
		res.Body = body
	case FormatCSV:
		body, err := renderCSV(all)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		res.ContentType = "text/csv"
		res.Filename = "esg_analyses.csv"
		res.Body = body
	}

	if store != nil {
		key := fmt.Sprintf("exports/%s/%d.%s", user.ID, s.Clock.Now().UnixMilli(), format)
		if url, err := store.Upload(ctx, key, res.Body, res.ContentType); err == nil {
			res.ArchiveURL = url
		}
	}

	if user.Tier != users.TierAnonymous {
		s.log(user.ID, activity.EventExport, map[string]any{
			"format": format,
			"rows":   len(all),
		})
	}
	return res, nil
}

func renderCSV(analyses []*domain.Analysis) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvColumns); err != nil {
		return nil, err
	}
	for _, a := range analyses {
		fws := make([]string, len(a.Frameworks))
		for i, fw := range a.Frameworks {
			fws[i] = string(fw)
		}
		row := []string{
			string(a.ID),
			a.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			a.CompanyName,
			a.IndustrySector,
			a.ReportingPeriod,
			formatScore(a.Scores.Environmental),
			formatScore(a.Scores.Social),
			formatScore(a.Scores.Governance),
			formatScore(a.Scores.Overall),
			strings.Join(fws, ";"),
			formatScore(a.CoverageAverage()),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
