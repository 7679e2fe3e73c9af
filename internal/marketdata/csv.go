package marketdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"trading-simv1/internal/model"
)

// CSVSource serves daily OHLCV rows from per-symbol CSV files in a directory:
// <dir>/<SYMBOL>.csv with a "date,open,high,low,close,volume" header and
// dates formatted YYYY-MM-DD. Rows outside the requested range are filtered
// out; unparseable lines are skipped with a warning.
type CSVSource struct {
	dir string
}

// NewCSVSource creates a file-backed source rooted at dir.
func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

func (s *CSVSource) Fetch(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	path := filepath.Join(s.dir, symbol+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, &FetchError{Symbol: symbol, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows []model.PricePoint
	line := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, &FetchError{Symbol: symbol, Err: err}
		}
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &FetchError{Symbol: symbol, Err: fmt.Errorf("read %s: %w", path, err)}
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "date") {
			continue // header
		}

		p, err := parseCSVRow(symbol, rec)
		if err != nil {
			slog.Warn("[csv] skipping malformed line", "file", path, "line", line, "err", err)
			continue
		}
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		rows = append(rows, p)
	}
	return rows, nil
}

func parseCSVRow(symbol string, rec []string) (model.PricePoint, error) {
	if len(rec) < 6 {
		return model.PricePoint{}, fmt.Errorf("want 6 fields, got %d", len(rec))
	}
	date, err := model.ParseDay(strings.TrimSpace(rec[0]))
	if err != nil {
		return model.PricePoint{}, fmt.Errorf("date %q: %w", rec[0], err)
	}

	var vals [4]float64
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
		if err != nil {
			return model.PricePoint{}, fmt.Errorf("field %d %q: %w", i+1, rec[i+1], err)
		}
		vals[i] = v
	}
	volume, err := strconv.ParseInt(strings.TrimSpace(rec[5]), 10, 64)
	if err != nil {
		return model.PricePoint{}, fmt.Errorf("volume %q: %w", rec[5], err)
	}

	return model.PricePoint{
		Symbol: symbol,
		Date:   date,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: volume,
	}, nil
}
