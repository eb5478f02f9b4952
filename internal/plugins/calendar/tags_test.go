package calendar

import (
	"strings"
	"testing"
	"time"
)

func TestScanTags(t *testing.T) {
	md := "Born `date-age 370-1-1` in `date 372-2`, crowned `date 300`.\n" +
		"Not tags: `date 372--5`, `dateage 372`, `date 372-`, `date x`, `dates 1`, date 5, `date -4`."

	tags := ScanTags(md)
	if len(tags) != 3 {
		t.Fatalf("expected 3 tags, got %d: %+v", len(tags), tags)
	}

	first := tags[0]
	if first.Text != "`date-age 370-1-1`" || !first.Ref.IncludeAge {
		t.Errorf("unexpected first tag %+v", first)
	}
	if md[first.Start:first.End] != first.Text {
		t.Errorf("offsets do not match text")
	}
	if got := first.Ref.String(); got != "370-1-1" {
		t.Errorf("expected 370-1-1, got %s", got)
	}

	if tags[1].Ref.Month == nil || tags[1].Ref.Day != nil {
		t.Errorf("expected year-month precision, got %+v", tags[1].Ref)
	}
	if tags[2].Ref.Month != nil || tags[2].Ref.IncludeAge {
		t.Errorf("expected year-only tag without age, got %+v", tags[2].Ref)
	}
}

func TestScanTags_SkipsOverflow(t *testing.T) {
	if tags := ScanTags("`date 99999999999999999999999`"); len(tags) != 0 {
		t.Errorf("expected overflowing year to be skipped, got %+v", tags)
	}
}

func TestRenderTags(t *testing.T) {
	cfg := testConfig(t, nil)
	md := "Born `date-age 370-1-1`, fell `date 372-5-1`, buried `date 372-2`."

	out, errs := RenderTags(md, cfg, time.Now())

	want := "Born Spring 1, 370 CE (age 2), fell `date 372-5-1`, buried Summer 372 CE."
	if out != want {
		t.Errorf("expected\n%q\ngot\n%q", want, out)
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 tag error, got %+v", errs)
	}
	if errs[0].Tag != "`date 372-5-1`" || errs[0].Offset != strings.Index(md, "`date 372-5-1`") {
		t.Errorf("unexpected tag error %+v", errs[0])
	}
	if errs[0].Message != "month 5 out of range [1, 4]" {
		t.Errorf("unexpected message %q", errs[0].Message)
	}
}

func TestRenderTags_NoTags(t *testing.T) {
	md := "plain `code` and text"
	out, errs := RenderTags(md, testConfig(t, nil), time.Now())
	if out != md || errs != nil {
		t.Errorf("expected input unchanged, got %q %v", out, errs)
	}
}

func TestParseDateReference(t *testing.T) {
	ref, err := ParseDateReference(" -44-3-15 ", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Year != -44 || ref.MonthOrDefault() != 3 || ref.DayOrDefault() != 15 || !ref.IncludeAge {
		t.Errorf("unexpected reference %+v", ref)
	}

	ref, err = ParseDateReference("372", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Month != nil || ref.Day != nil {
		t.Errorf("expected year-only reference, got %+v", ref)
	}
	if ref.Date() != (Date{Year: 372, Month: 1, Day: 1}) {
		t.Errorf("expected absent parts to default to 1, got %v", ref.Date())
	}

	for _, bad := range []string{"", "-", "a", "1-b", "1-2-3-4", "1--2"} {
		if _, err := ParseDateReference(bad, false); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
