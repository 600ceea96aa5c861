package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Quarter is a calendar quarter token of the form "YYYYqN" with N in 1..4.
// Tokens are fixed width, so lexical order is chronological order.
type Quarter string

// ParseQuarter validates a quarter token.
func ParseQuarter(token string) (Quarter, error) {
	token = strings.TrimSpace(token)
	if len(token) != 6 || token[4] != 'q' {
		return "", fmt.Errorf("invalid quarter token %q", token)
	}
	if _, err := strconv.Atoi(token[:4]); err != nil {
		return "", fmt.Errorf("invalid quarter year in %q", token)
	}
	if token[5] < '1' || token[5] > '4' {
		return "", fmt.Errorf("invalid quarter number in %q", token)
	}
	return Quarter(token), nil
}

// QuarterFromMonth maps a "YYYY-MM" month token to its quarter.
func QuarterFromMonth(month string) (Quarter, error) {
	year, mm, ok := strings.Cut(strings.TrimSpace(month), "-")
	if !ok || len(year) != 4 || len(mm) != 2 {
		return "", fmt.Errorf("invalid month token %q", month)
	}
	if _, err := strconv.Atoi(year); err != nil {
		return "", fmt.Errorf("invalid month year in %q", month)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 1 || m > 12 {
		return "", fmt.Errorf("invalid month number in %q", month)
	}
	return Quarter(fmt.Sprintf("%sq%d", year, (m-1)/3+1)), nil
}

// IsMonthToken reports whether s looks like a "YYYY-MM" month column.
func IsMonthToken(s string) bool {
	_, err := QuarterFromMonth(s)
	return err == nil
}

// String implements fmt.Stringer
func (q Quarter) String() string {
	return string(q)
}

// Year returns the calendar year of the quarter.
func (q Quarter) Year() int {
	y, _ := strconv.Atoi(string(q[:4]))
	return y
}

// Number returns the quarter number, 1 to 4.
func (q Quarter) Number() int {
	return int(q[5] - '0')
}

// Next returns the following quarter.
func (q Quarter) Next() Quarter {
	if q.Number() == 4 {
		return Quarter(fmt.Sprintf("%04dq1", q.Year()+1))
	}
	return Quarter(fmt.Sprintf("%04dq%d", q.Year(), q.Number()+1))
}

// Missing returns the value used for an absent measurement.
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether v is an absent measurement.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}
