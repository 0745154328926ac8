package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/leaguehub/scheduler/internal/models"
)

// FieldDetail resolves a fieldKey into the (location, fieldName) pair the
// GameChanger dialect needs split out, and the display name the
// SportsEngine dialect needs (spec §4.H).
type FieldDetail struct {
	Location    string
	FieldName   string
	DisplayName string
}

// InternalDataset renders the internal dialect: column order matches the
// Assignment record verbatim.
func InternalDataset(assignments []models.Assignment) Dataset {
	headers := []string{"slotId", "gameDate", "startTime", "endTime", "fieldKey", "homeTeamId", "awayTeamId", "isExternalOffer"}
	rows := make([]map[string]string, 0, len(assignments))
	for _, a := range assignments {
		rows = append(rows, map[string]string{
			"slotId":          a.SlotID,
			"gameDate":        a.GameDate,
			"startTime":       strconv.Itoa(a.StartTime),
			"endTime":         strconv.Itoa(a.EndTime),
			"fieldKey":        a.FieldKey,
			"homeTeamId":      derefOr(a.HomeTeamID, ""),
			"awayTeamId":      derefOr(a.AwayTeamID, ""),
			"isExternalOffer": strconv.FormatBool(a.IsExternalOffer),
		})
	}
	return Dataset{Headers: headers, Rows: rows}
}

// SportsEngineDataset renders the SportsEngine dialect: "Event Type,…"
// with friendly field display names substituted for raw fieldKeys.
func SportsEngineDataset(assignments []models.Assignment, fields map[string]FieldDetail) Dataset {
	headers := []string{"Event Type", "Date", "Start Time", "End Time", "Location", "Home Team", "Away Team"}
	rows := make([]map[string]string, 0, len(assignments))
	for _, a := range assignments {
		eventType := "Game"
		if a.IsExternalOffer {
			eventType = "External Offer"
		}
		display := a.FieldKey
		if detail, ok := fields[a.FieldKey]; ok && detail.DisplayName != "" {
			display = detail.DisplayName
		}
		rows = append(rows, map[string]string{
			"Event Type": eventType,
			"Date":       a.GameDate,
			"Start Time": formatMinutes24(a.StartTime),
			"End Time":   formatMinutes24(a.EndTime),
			"Location":   display,
			"Home Team":  derefOr(a.HomeTeamID, ""),
			"Away Team":  derefOr(a.AwayTeamID, ""),
		})
	}
	return Dataset{Headers: headers, Rows: rows}
}

// GameChangerDataset renders the GameChanger dialect: dates as
// MM/DD/YYYY, times as 12-hour "h:mm AM/PM", location/field split out of
// the fieldKey map, and sequential game numbers.
func GameChangerDataset(assignments []models.Assignment, fields map[string]FieldDetail) Dataset {
	headers := []string{"Game #", "Date", "Time", "Location", "Field", "Home", "Visitor"}
	rows := make([]map[string]string, 0, len(assignments))
	gameNumber := 0
	for _, a := range assignments {
		gameNumber++
		detail := fields[a.FieldKey]
		rows = append(rows, map[string]string{
			"Game #":  strconv.Itoa(gameNumber),
			"Date":    toMMDDYYYY(a.GameDate),
			"Time":    formatMinutes12(a.StartTime),
			"Location": detail.Location,
			"Field":   detail.FieldName,
			"Home":    derefOr(a.HomeTeamID, ""),
			"Visitor": derefOr(a.AwayTeamID, ""),
		})
	}
	return Dataset{Headers: headers, Rows: rows}
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func formatMinutes24(totalMin int) string {
	h := totalMin / 60
	m := totalMin % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

func formatMinutes12(totalMin int) string {
	h := totalMin / 60
	m := totalMin % 60
	period := "AM"
	displayHour := h
	if h == 0 {
		displayHour = 12
	} else if h == 12 {
		period = "PM"
	} else if h > 12 {
		displayHour = h - 12
		period = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", displayHour, m, period)
}

func toMMDDYYYY(isoDate string) string {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return isoDate
	}
	return t.Format("01/02/2006")
}
