package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/golf-handicap/internal/domain/handicap"
	"github.com/riskibarqy/golf-handicap/internal/domain/round"
	"github.com/riskibarqy/golf-handicap/internal/infrastructure/repository/spreadsheet"
	"github.com/riskibarqy/golf-handicap/internal/platform/calendar"
	"github.com/riskibarqy/golf-handicap/internal/usecase"
	"github.com/urfave/cli/v2"
)

type services struct {
	rounds   *usecase.RoundService
	handicap *usecase.HandicapService
	imports  *usecase.ImportService
	dates    *calendar.Parser
}

type servicesFactory func(ctx context.Context) (*services, func() error, error)

func newApp(open servicesFactory) *cli.App {
	return &cli.App{
		Name:  "handicapctl",
		Usage: "record golf rounds and compute a handicap index",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "list rounds, newest first",
				Flags:  []cli.Flag{jsonFlag},
				Action: withServices(open, listRounds),
			},
			{
				Name:  "add",
				Usage: "record a round",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "date", Usage: "played date, ISO or natural language", Value: "today"},
					&cli.StringFlag{Name: "course", Required: true},
					&cli.StringFlag{Name: "tees"},
					&cli.IntFlag{Name: "holes", Value: 18},
					&cli.IntFlag{Name: "score", Required: true},
					&cli.IntFlag{Name: "par", Required: true},
					&cli.Float64Flag{Name: "rating", Required: true},
					&cli.IntFlag{Name: "slope", Required: true},
					&cli.StringFlag{Name: "course-type", Value: string(round.CourseTypeRegulation)},
					&cli.BoolFlag{Name: "exclude", Usage: "do not count the round toward the handicap"},
				},
				Action: withServices(open, addRound),
			},
			{
				Name:      "toggle",
				Usage:     "flip whether a round counts toward the handicap",
				ArgsUsage: "ROUND_ID",
				Action:    withServices(open, toggleRound),
			},
			{
				Name:      "delete",
				Usage:     "delete a round",
				ArgsUsage: "ROUND_ID",
				Action:    withServices(open, deleteRound),
			},
			{
				Name:   "summary",
				Usage:  "show handicap indexes and scoring stats",
				Flags:  []cli.Flag{jsonFlag},
				Action: withServices(open, showSummary),
			},
			{
				Name:  "import",
				Usage: "create rounds from an xlsx workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Required: true},
					&cli.StringFlag{Name: "sheet", Usage: "sheet name, first sheet when empty"},
				},
				Action: withServices(open, importRounds),
			},
		},
	}
}

var jsonFlag = &cli.BoolFlag{Name: "json", Usage: "print JSON"}

func withServices(open servicesFactory, fn func(*cli.Context, *services) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		svc, closeFn, err := open(c.Context)
		if err != nil {
			return err
		}
		defer func() {
			_ = closeFn()
		}()
		return fn(c, svc)
	}
}

func listRounds(c *cli.Context, svc *services) error {
	items, err := svc.rounds.List(c.Context)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(c.App.Writer, items)
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCOURSE\tTYPE\tHOLES\tSCORE\tADJ\tDIFF\tCOUNTS")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%.2f\t%s\n",
			item.ID, item.Date, item.Course, item.CourseType, item.Holes,
			item.Score, item.AdjScore, item.Differential, yesNo(item.IncludeInHandicap))
	}
	return tw.Flush()
}

func addRound(c *cli.Context, svc *services) error {
	date, err := svc.dates.Parse(c.String("date"))
	if err != nil {
		return err
	}
	courseType, err := round.ParseCourseType(c.String("course-type"))
	if err != nil {
		return err
	}

	item, err := svc.rounds.Create(c.Context, round.Input{
		Date:              date,
		Course:            c.String("course"),
		Tees:              c.String("tees"),
		Holes:             round.Holes(c.Int("holes")),
		Score:             c.Int("score"),
		Par:               c.Int("par"),
		Rating:            c.Float64("rating"),
		Slope:             c.Int("slope"),
		CourseType:        courseType,
		IncludeInHandicap: !c.Bool("exclude"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "created %s: %s %s adj=%d differential=%.2f\n",
		item.ID, item.Date, item.Course, item.AdjScore, item.Differential)
	return nil
}

func toggleRound(c *cli.Context, svc *services) error {
	roundID, err := roundIDArg(c)
	if err != nil {
		return err
	}
	items, err := svc.rounds.Rounds(c.Context)
	if err != nil {
		return err
	}

	for _, item := range items {
		if item.ID != roundID {
			continue
		}
		updated, err := svc.rounds.SetIncludeInHandicap(c.Context, roundID, !item.IncludeInHandicap)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "%s counts toward handicap: %s\n", updated.ID, yesNo(updated.IncludeInHandicap))
		return nil
	}
	return fmt.Errorf("%w: round=%s", usecase.ErrNotFound, roundID)
}

func deleteRound(c *cli.Context, svc *services) error {
	roundID, err := roundIDArg(c)
	if err != nil {
		return err
	}
	if err := svc.rounds.Delete(c.Context, roundID); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "deleted %s\n", roundID)
	return nil
}

func showSummary(c *cli.Context, svc *services) error {
	summary := svc.handicap.Summary(c.Context)
	if c.Bool("json") {
		return printJSON(c.App.Writer, summary)
	}

	w := c.App.Writer
	if summary.Degraded {
		fmt.Fprintln(w, "warning: rounds could not be read, showing an empty history")
	}
	fmt.Fprintf(w, "Handicap index (all courses): %s\n", formatIndex(summary.Overall))
	fmt.Fprintf(w, "Handicap index (regulation):  %s\n", formatIndex(summary.Regulation))
	fmt.Fprintf(w, "All courses:        %s\n", formatStats(summary.AllCourses))
	fmt.Fprintf(w, "Regulation courses: %s\n", formatStats(summary.RegulationStats))
	return nil
}

func importRounds(c *cli.Context, svc *services) error {
	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	inputs, err := spreadsheet.ReadInputs(f, c.String("sheet"), svc.dates.Parse)
	if err != nil {
		return err
	}

	rows := make([]usecase.ImportRow, 0, len(inputs))
	for _, in := range inputs {
		rows = append(rows, usecase.ImportRow{Row: in.Row, Input: in.Input, Err: in.Err})
	}

	result, err := svc.imports.Import(c.Context, rows)
	if err != nil {
		return err
	}

	w := c.App.Writer
	for _, row := range result.Rows {
		if row.Status == usecase.ImportStatusCreated {
			continue
		}
		fmt.Fprintf(w, "row %d %s: %s\n", row.Row, row.Status, row.Message)
	}
	fmt.Fprintf(w, "imported %d rounds (%d invalid, %d failed)\n",
		result.CreatedCount, result.InvalidCount, result.FailedCount)
	return nil
}

func roundIDArg(c *cli.Context) (string, error) {
	roundID := strings.TrimSpace(c.Args().First())
	if roundID == "" {
		return "", fmt.Errorf("%w: ROUND_ID argument is required", usecase.ErrInvalidInput)
	}
	return roundID, nil
}

func formatIndex(v usecase.IndexResult) string {
	if !v.Available {
		return "--"
	}
	return fmt.Sprintf("%.1f (best %d of %d)",
		handicap.RoundToTenth(v.Index.Value), v.Index.RoundsUsed, v.Index.TotalHandicapRounds)
}

func formatStats(v handicap.Stats) string {
	return fmt.Sprintf("rounds=%d avg=%s best=%s trend=%s",
		v.Total, formatMeasure(v.Average, "%.1f"), formatMeasure(v.Best, "%.0f"), formatMeasure(v.Trend, "%+.1f"))
}

func formatMeasure(m handicap.Measure, layout string) string {
	if !m.Valid {
		return "--"
	}
	return fmt.Sprintf(layout, m.Value)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func printJSON(w io.Writer, v any) error {
	raw, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
