package tournamentservice

import (
	"fmt"

	tournamentdomain "github.com/acain89/SkillGrid/app/modules/tournament/domain"
	"github.com/xuri/excelize/v2"
)

const (
	standingsSheet = "Standings"
	bracketSheet   = "Bracket"
)

// ExportResults renders a tournament's standings and bracket as an XLSX
// workbook. Waiting and running tournaments export whatever is known so far.
func ExportResults(t tournamentdomain.Tournament) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", standingsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	names := make(map[string]string, len(t.Players))
	for _, p := range t.Players {
		names[p.ID] = p.DisplayName
	}

	rows := [][]any{{"Rank", "Player", "Display name", "Bucket", "Round out", "Prize"}}
	for _, p := range t.Standings() {
		rows = append(rows, []any{p.Rank, p.PlayerID, names[p.PlayerID], string(p.Bucket), p.Round + 1, centsToDollars(p.PrizeCents)})
	}
	if err := writeRows(f, standingsSheet, rows); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(bracketSheet); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}
	rows = [][]any{{"Round", "Match", "Seat A", "Seat B", "Winner", "Status"}}
	for _, r := range t.Rounds {
		for _, m := range r.Matches {
			rows = append(rows, []any{r.Index + 1, m.Index + 1, m.SeatA, m.SeatB, m.Winner, string(m.Status)})
		}
	}
	if err := writeRows(f, bracketSheet, rows); err != nil {
		return nil, err
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   fmt.Sprintf("Tournament %s", t.ID),
		Subject: fmt.Sprintf("%s %s", t.Tier, t.Format),
	}); err != nil {
		return nil, fmt.Errorf("set properties: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func centsToDollars(cents int64) float64 { return float64(cents) / 100 }
