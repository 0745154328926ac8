package service

import (
	"context"

	"github.com/leaguehub/scheduler/internal/models"
	"github.com/leaguehub/scheduler/internal/repository"
	appErrors "github.com/leaguehub/scheduler/pkg/errors"
	"github.com/leaguehub/scheduler/pkg/export"
)

// ExportDialect selects one of the three CSV dialects spec §4.H names.
type ExportDialect string

const (
	DialectInternal     ExportDialect = "internal"
	DialectSportsEngine ExportDialect = "sportsengine"
	DialectGameChanger  ExportDialect = "gamechanger"
)

// ExportService renders an assignment list into one of the three CSV
// dialects, resolving field display names from the Field repository.
type ExportService struct {
	fields    *repository.FieldRepository
	csvWriter *export.CSVExporter
}

func NewExportService(fields *repository.FieldRepository, csvWriter *export.CSVExporter) *ExportService {
	return &ExportService{fields: fields, csvWriter: csvWriter}
}

// Render produces CSV bytes for assignments in the requested dialect.
func (s *ExportService) Render(ctx context.Context, leagueID string, assignments []models.Assignment, dialect ExportDialect) ([]byte, error) {
	var dataset export.Dataset
	switch dialect {
	case DialectInternal:
		dataset = export.InternalDataset(assignments)
	case DialectSportsEngine:
		details, err := s.fieldDetails(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		dataset = export.SportsEngineDataset(assignments, details)
	case DialectGameChanger:
		details, err := s.fieldDetails(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		dataset = export.GameChangerDataset(assignments, details)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown export dialect")
	}

	data, err := s.csvWriter.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return data, nil
}

func (s *ExportService) fieldDetails(ctx context.Context, leagueID string) (map[string]export.FieldDetail, error) {
	fields, err := s.fields.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]export.FieldDetail, len(fields))
	for _, f := range fields {
		out[f.FieldKey] = export.FieldDetail{
			Location:    f.Location,
			FieldName:   f.FieldName,
			DisplayName: f.DisplayName,
		}
	}
	return out, nil
}
