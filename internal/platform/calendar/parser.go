package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/riskibarqy/golf-handicap/internal/domain/round"
)

var ErrUnrecognizedDate = errors.New("unrecognized date")

// Parser turns ISO dates or English phrases ("yesterday", "last saturday")
// into calendar dates relative to a reference clock.
type Parser struct {
	w   *when.Parser
	now func() time.Time
}

func NewParser(now func() time.Time) *Parser {
	if now == nil {
		now = time.Now
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{w: w, now: now}
}

func (p *Parser) Parse(input string) (round.Date, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return round.Date{}, fmt.Errorf("%w: empty input", ErrUnrecognizedDate)
	}

	if d, err := round.ParseDate(input); err == nil {
		return d, nil
	}

	base := p.now()
	res, err := p.w.Parse(strings.ToLower(input), base)
	if err != nil {
		return round.Date{}, fmt.Errorf("%w: %q: %v", ErrUnrecognizedDate, input, err)
	}
	if res == nil {
		return round.Date{}, fmt.Errorf("%w: %q", ErrUnrecognizedDate, input)
	}

	return round.DateOf(res.Time.In(base.Location())), nil
}
