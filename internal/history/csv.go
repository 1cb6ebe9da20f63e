package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"lotto-cover-lab/internal/domain"
)

// ErrMalformedDraw is returned by ReadDraws for rows that cannot be parsed.
var ErrMalformedDraw = errors.New("malformed draw row")

// ReadDraws parses draws from CSV rows of the form
//
//	date,b1,...,bk
//
// with dates as YYYY-MM-DD. A first row whose date column does not parse is
// treated as a header and skipped. Numbers may appear in any order.
func ReadDraws(r io.Reader, u domain.Universe) ([]*domain.HistoricalDraw, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = u.K + 1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var draws []*domain.HistoricalDraw
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedDraw, err)
		}

		date, err := time.Parse(time.DateOnly, strings.TrimSpace(rec[0]))
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("%w: line %d: date %q", ErrMalformedDraw, line, rec[0])
		}

		nums := make([]int, u.K)
		for i, field := range rec[1:] {
			n, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: number %q", ErrMalformedDraw, line, field)
			}
			nums[i] = n
		}
		c, err := domain.NewCombination(nums, u)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedDraw, line, err)
		}

		draws = append(draws, &domain.HistoricalDraw{DrawDate: date, Numbers: c})
	}
	return draws, nil
}
