package admin

import (
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rbt-academy/trainer/internal/model"
)

const (
	usersSheet     = "Users"
	responsesSheet = "Custom answers"
)

var (
	usersHeader     = []interface{}{"Name", "Store", "Level", "XP", "Last active", "Simulator sessions", "Objection answers"}
	responsesHeader = []interface{}{"Date", "Name", "Question", "Answer", "Score", "Feedback"}
)

func writeWorkbook(w io.Writer, users []model.RegistryEntry, responses []model.CustomResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", usersSheet); err != nil {
		return err
	}
	rows := make([][]interface{}, 0, len(users))
	for _, e := range users {
		rows = append(rows, []interface{}{
			e.Name, e.Store, e.Level, e.XP, formatTime(e.LastActive),
			len(e.LastSimulatorSession), len(e.LastObjectionSession),
		})
	}
	if err := writeSheet(f, usersSheet, usersHeader, rows); err != nil {
		return err
	}
	if err := f.SetColWidth(usersSheet, "A", "G", 20); err != nil {
		return err
	}

	if _, err := f.NewSheet(responsesSheet); err != nil {
		return err
	}
	rows = rows[:0]
	for _, r := range responses {
		rows = append(rows, []interface{}{
			formatTime(r.Date), r.Name, r.Question, r.Response, r.Score, r.Feedback,
		})
	}
	if err := writeSheet(f, responsesSheet, responsesHeader, rows); err != nil {
		return err
	}
	if err := f.SetColWidth(responsesSheet, "C", "D", 50); err != nil {
		return err
	}

	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
