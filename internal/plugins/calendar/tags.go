package calendar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateTagRe matches inline code spans such as `date 372`, `date 372-2`,
// `date 372-2-12`, and `date-age 372-2-12`. A day is only recognized after a
// month.
var dateTagRe = regexp.MustCompile("`date(-age)? (\\d+)(?:-(\\d+)(?:-(\\d+))?)?`")

// Tag is one date tag found in a markdown document.
type Tag struct {
	// Start and End are the byte offsets of the tag, backticks included.
	Start int
	End   int

	// Text is the raw tag text.
	Text string

	// Ref is the parsed date reference.
	Ref DateReference
}

// ScanTags returns every date tag in md, in document order. Numbers that do
// not fit in an int are skipped.
func ScanTags(md string) []Tag {
	matches := dateTagRe.FindAllStringSubmatchIndex(md, -1)
	tags := make([]Tag, 0, len(matches))

	for _, m := range matches {
		year, ok := atoiGroup(md, m, 2)
		if !ok {
			continue
		}
		month, ok := atoiGroup(md, m, 3)
		if !ok {
			continue
		}
		day, ok := atoiGroup(md, m, 4)
		if !ok {
			continue
		}

		ref := DateReference{Year: year, IncludeAge: m[2] >= 0}
		if m[6] >= 0 {
			ref.Month = &month
		}
		if m[8] >= 0 {
			ref.Day = &day
		}
		tags = append(tags, Tag{Start: m[0], End: m[1], Text: md[m[0]:m[1]], Ref: ref})
	}
	return tags
}

// atoiGroup parses submatch group g. An unmatched group yields (0, true).
func atoiGroup(s string, m []int, g int) (int, bool) {
	if m[2*g] < 0 {
		return 0, true
	}
	v, err := strconv.Atoi(s[m[2*g]:m[2*g+1]])
	return v, err == nil
}

// RenderTags replaces every date tag in md with its Render output. A tag
// that fails to render stays in the document unchanged and is reported in
// the returned slice; the remaining tags are still rendered.
func RenderTags(md string, cfg *CalendarConfig, now time.Time) (string, []TagError) {
	tags := ScanTags(md)
	if len(tags) == 0 {
		return md, nil
	}

	var (
		b      strings.Builder
		errs   []TagError
		cursor int
	)
	b.Grow(len(md))
	for _, tag := range tags {
		b.WriteString(md[cursor:tag.Start])
		cursor = tag.End

		out, err := Render(tag.Ref, cfg, now)
		if err != nil {
			errs = append(errs, TagError{Tag: tag.Text, Offset: tag.Start, Message: err.Error()})
			b.WriteString(tag.Text)
			continue
		}
		b.WriteString(out)
	}
	b.WriteString(md[cursor:])
	return b.String(), errs
}

// ParseDateReference parses "YEAR[-MONTH[-DAY]]" as typed into a query
// string or the CLI. Unlike date tags, a leading minus marks a year before
// the epoch.
func ParseDateReference(s string, includeAge bool) (DateReference, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	parts := strings.Split(strings.TrimPrefix(s, "-"), "-")
	if len(parts) > 3 || parts[0] == "" {
		return DateReference{}, fmt.Errorf("date %q is not in YEAR[-MONTH[-DAY]] form", s)
	}

	var vals [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return DateReference{}, fmt.Errorf("date %q is not in YEAR[-MONTH[-DAY]] form", s)
		}
		vals[i] = v
	}
	if neg {
		vals[0] = -vals[0]
	}

	ref := DateReference{Year: vals[0], IncludeAge: includeAge}
	if len(parts) > 1 {
		ref.Month = &vals[1]
	}
	if len(parts) > 2 {
		ref.Day = &vals[2]
	}
	return ref, nil
}
