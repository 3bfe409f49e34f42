package spreadsheet

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/golf-handicap/internal/domain/round"
	"github.com/riskibarqy/golf-handicap/internal/platform/logging"
	"github.com/xuri/excelize/v2"
)

const DefaultSheet = "Rounds"

// RoundRepository persists rounds as text rows of one worksheet in an xlsx file.
// Rows that fail to decode are skipped on read and left untouched on write.
type RoundRepository struct {
	mu     sync.Mutex
	path   string
	sheet  string
	logger *logging.Logger
}

func NewRoundRepository(path, sheet string, logger *logging.Logger) *RoundRepository {
	if strings.TrimSpace(sheet) == "" {
		sheet = DefaultSheet
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RoundRepository{
		path:   path,
		sheet:  sheet,
		logger: logger,
	}
}

func (r *RoundRepository) List(ctx context.Context) ([]round.Round, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.open()
	if err != nil {
		return nil, err
	}
	defer closeQuietly(f)

	rows, err := r.rows(f)
	if err != nil {
		return nil, err
	}

	out := make([]round.Round, 0, len(rows))
	for i, cells := range rows {
		if i == 0 || isBlankRow(cells) {
			continue
		}
		item, err := DecodeRow(cells)
		if err != nil {
			r.logger.WarnContext(ctx, "skip malformed round row",
				"path", r.path,
				"sheet", r.sheet,
				"row", i+1,
				"error", err,
			)
			continue
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *RoundRepository) Create(_ context.Context, item round.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.open()
	if err != nil {
		return err
	}
	defer closeQuietly(f)

	rows, err := r.rows(f)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		if err := writeRow(f, r.sheet, 1, Header); err != nil {
			return err
		}
		rows = append(rows, Header)
	}
	if findRow(rows, item.ID) > 0 {
		return crerr.Wrapf(round.ErrRoundExists, "id=%s", item.ID)
	}

	if err := writeRow(f, r.sheet, len(rows)+1, EncodeRow(item)); err != nil {
		return err
	}
	return r.save(f)
}

func (r *RoundRepository) SetIncludeInHandicap(_ context.Context, roundID string, include bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.open()
	if err != nil {
		return err
	}
	defer closeQuietly(f)

	rows, err := r.rows(f)
	if err != nil {
		return err
	}
	rowNum := findRow(rows, roundID)
	if rowNum == 0 {
		return crerr.Wrapf(round.ErrRoundNotFound, "id=%s", roundID)
	}

	cell, err := excelize.CoordinatesToCellName(colInclude+1, rowNum)
	if err != nil {
		return crerr.Wrap(err, "resolve include cell")
	}
	if err := f.SetCellStr(r.sheet, cell, EncodeInclude(include)); err != nil {
		return crerr.Wrapf(err, "write include flag for %s", roundID)
	}
	return r.save(f)
}

func (r *RoundRepository) Delete(_ context.Context, roundID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.open()
	if err != nil {
		return err
	}
	defer closeQuietly(f)

	rows, err := r.rows(f)
	if err != nil {
		return err
	}
	rowNum := findRow(rows, roundID)
	if rowNum == 0 {
		return crerr.Wrapf(round.ErrRoundNotFound, "id=%s", roundID)
	}

	if err := f.RemoveRow(r.sheet, rowNum); err != nil {
		return crerr.Wrapf(err, "remove row %d", rowNum)
	}
	return r.save(f)
}

// open loads the workbook, or starts an empty one when the file does not exist yet.
func (r *RoundRepository) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		f = excelize.NewFile()
		if err := f.SetSheetName(f.GetSheetName(0), r.sheet); err != nil {
			closeQuietly(f)
			return nil, crerr.Wrapf(err, "name sheet %q", r.sheet)
		}
		return f, nil
	}
	if err != nil {
		err = crerr.Wrapf(err, "open workbook %s", r.path)
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			err = crerr.Mark(err, round.ErrMalformedRound)
		}
		return nil, err
	}

	idx, err := f.GetSheetIndex(r.sheet)
	if err != nil {
		closeQuietly(f)
		return nil, crerr.Wrapf(err, "lookup sheet %q", r.sheet)
	}
	if idx < 0 {
		if _, err := f.NewSheet(r.sheet); err != nil {
			closeQuietly(f)
			return nil, crerr.Wrapf(err, "create sheet %q", r.sheet)
		}
	}
	return f, nil
}

func (r *RoundRepository) rows(f *excelize.File) ([][]string, error) {
	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, crerr.Mark(crerr.Wrapf(err, "read sheet %q", r.sheet), round.ErrMalformedRound)
	}
	return rows, nil
}

func (r *RoundRepository) save(f *excelize.File) error {
	if err := f.SaveAs(r.path); err != nil {
		return crerr.Wrapf(err, "save workbook %s", r.path)
	}
	return nil
}

// findRow returns the 1-based row holding id, or 0.
func findRow(rows [][]string, id string) int {
	for i, cells := range rows {
		if i == 0 || len(cells) == 0 {
			continue
		}
		if strings.TrimSpace(cells[colID]) == id {
			return i + 1
		}
	}
	return 0
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	start, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return crerr.Wrap(err, "resolve row start")
	}
	if err := f.SetSheetRow(sheet, start, &cells); err != nil {
		return crerr.Wrapf(err, "write row %d", rowNum)
	}
	return nil
}

func closeQuietly(f *excelize.File) {
	_ = f.Close()
}
