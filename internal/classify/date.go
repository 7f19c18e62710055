package classify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/noticekit/noticeforge/internal/entity"
)

var (
	eraDateRe  = regexp.MustCompile(`(令和|平成|昭和)\s*([0-9]{1,2}|元)\s*年\s*([0-9]{1,2})\s*月\s*([0-9]{1,2})\s*日`)
	gregDateRe = regexp.MustCompile(`([12][0-9]{3})\s*年\s*([0-9]{1,2})\s*月\s*([0-9]{1,2})\s*日`)
)

// Era offsets: era year 1 == offset+1 in the Gregorian calendar.
var eraOffsets = map[string]int{
	"令和": 2018,
	"平成": 1988,
	"昭和": 1925,
}

// GuessDate finds the issuance date: era form first, plain Gregorian as
// the fallback. Returns the matched string verbatim, or "".
func GuessDate(text string) string {
	if m := eraDateRe.FindString(text); m != "" {
		return m
	}
	return gregDateRe.FindString(text)
}

// DateKey converts a guessed date to an 8-digit lexicographically
// sortable key. Unparsable input sorts last.
func DateKey(date string) string {
	if m := eraDateRe.FindStringSubmatch(date); m != nil {
		year := 1
		if m[2] != "元" {
			year, _ = strconv.Atoi(m[2])
		}
		offset, ok := eraOffsets[m[1]]
		if !ok || year < 1 {
			return entity.UnknownDateKey
		}
		return formatKey(offset+year, m[3], m[4])
	}
	if m := gregDateRe.FindStringSubmatch(date); m != nil {
		y, _ := strconv.Atoi(m[1])
		return formatKey(y, m[2], m[3])
	}
	return entity.UnknownDateKey
}

func formatKey(year int, monthStr, dayStr string) string {
	month, _ := strconv.Atoi(strings.TrimSpace(monthStr))
	day, _ := strconv.Atoi(strings.TrimSpace(dayStr))
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return entity.UnknownDateKey
	}
	return fmt.Sprintf("%04d%02d%02d", year, month, day)
}
