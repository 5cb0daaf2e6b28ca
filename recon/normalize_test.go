package recon

import (
	"testing"
	"time"
)

func TestCleanCode(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		width int
		want  string
		nil_  bool
	}{
		{name: "numeric gets padded", raw: "5", width: 2, want: "05"},
		{name: "string gets padded", raw: "7", width: 2, want: "07"},
		{name: "absent stays absent", raw: "", width: 2, nil_: true},
		{name: "whitespace is absent", raw: "   ", width: 2, nil_: true},
		{name: "float rendering collapses", raw: "123.0", width: 2, want: "123"},
		{name: "excel zero", raw: "0.0", width: 2, want: "00"},
		{name: "already padded", raw: "A1", width: 2, want: "A1"},
		{name: "longer than width untouched", raw: "ABC", width: 2, want: "ABC"},
	}
	for _, tc := range cases {
		got := CleanCode(tc.raw, tc.width)
		if tc.nil_ {
			if got != nil {
				t.Errorf("%s: CleanCode(%q, %d) = %q, want nil", tc.name, tc.raw, tc.width, *got)
			}
			continue
		}
		if got == nil {
			t.Errorf("%s: CleanCode(%q, %d) = nil, want %q", tc.name, tc.raw, tc.width, tc.want)
			continue
		}
		if *got != tc.want {
			t.Errorf("%s: CleanCode(%q, %d) = %q, want %q", tc.name, tc.raw, tc.width, *got, tc.want)
		}
	}
}

func TestToDate(t *testing.T) {
	got := ToDate("2024-03-15")
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Fatalf("ToDate(2024-03-15) = %v, want %v", got, want)
	}

	if got := ToDate("03/15/2024"); got == nil || !got.Equal(want) {
		t.Fatalf("ToDate(03/15/2024) = %v, want %v", got, want)
	}

	if got := ToDate("2024-03-15 00:00:00"); got == nil || !got.Equal(want) {
		t.Fatalf("ToDate with time part = %v, want %v", got, want)
	}

	if got := ToDate("not a date"); got != nil {
		t.Fatalf("ToDate(not a date) = %v, want nil", got)
	}

	if got := ToDate(""); got != nil {
		t.Fatalf("ToDate(empty) = %v, want nil", got)
	}
}

func TestToFloatBestEffort(t *testing.T) {
	if got := ToFloat("1234.5"); got == nil || *got != 1234.5 {
		t.Fatalf("ToFloat(1234.5) = %v", got)
	}
	// thousands separators from excel renderings
	if got := ToFloat("1,234.50"); got == nil || *got != 1234.5 {
		t.Fatalf("ToFloat(1,234.50) = %v", got)
	}
	if got := ToFloat("garbage"); got != nil {
		t.Fatalf("ToFloat(garbage) = %v, want nil", got)
	}
	if got := ToFloat(""); got != nil {
		t.Fatalf("ToFloat(empty) = %v, want nil", got)
	}
}

func TestToIntStrict(t *testing.T) {
	got, err := ToInt("42")
	if err != nil || got == nil || *got != 42 {
		t.Fatalf("ToInt(42) = %v, %v", got, err)
	}

	got, err = ToInt("7.0")
	if err != nil || got == nil || *got != 7 {
		t.Fatalf("ToInt(7.0) = %v, %v", got, err)
	}

	got, err = ToInt("")
	if err != nil || got != nil {
		t.Fatalf("ToInt(empty) = %v, %v, want nil, nil", got, err)
	}

	if _, err = ToInt("7.5"); err == nil {
		t.Fatal("ToInt(7.5) should fail")
	}
	if _, err = ToInt("abc"); err == nil {
		t.Fatal("ToInt(abc) should fail")
	}
}

func TestToBool(t *testing.T) {
	for raw, want := range map[string]bool{
		"1": true, "0": false, "true": true, "FALSE": false, "Y": true, "no": false, "1.0": true,
	} {
		got, err := ToBool(raw)
		if err != nil || got == nil || *got != want {
			t.Errorf("ToBool(%q) = %v, %v, want %v", raw, got, err, want)
		}
	}

	got, err := ToBool("")
	if err != nil || got != nil {
		t.Fatalf("ToBool(empty) = %v, %v, want nil, nil", got, err)
	}

	if _, err := ToBool("maybe"); err == nil {
		t.Fatal("ToBool(maybe) should fail")
	}
}

func TestCleanString(t *testing.T) {
	if got := CleanString("  Smith  "); got == nil || *got != "Smith" {
		t.Fatalf("CleanString = %v", got)
	}
	if got := CleanString(""); got != nil {
		t.Fatalf("CleanString(empty) = %v, want nil", got)
	}
	// pandas renders missing cells as NaN in csv round-trips
	if got := CleanString("NaN"); got != nil {
		t.Fatalf("CleanString(NaN) = %v, want nil", got)
	}
}
