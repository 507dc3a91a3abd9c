package portfolio

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2025-01-10", NewDate(2025, time.January, 10), false},
		{"2025-1-2", NewDate(2025, time.January, 2), false},
		{"not-a-date", Date{}, true},
		{"", Date{}, true},
	}
	for _, tc := range tests {
		got, err := ParseDate(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseDate(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && got != tc.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestDate_AddNormalizes(t *testing.T) {
	got := NewDate(2025, time.January, 31).Add(1)
	if want := NewDate(2025, time.February, 1); got != want {
		t.Errorf("Add(1) = %s, want %s", got, want)
	}
}

func TestDate_JSON(t *testing.T) {
	day := NewDate(2025, time.January, 10)
	data, err := json.Marshal(day)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if want := `"2025-01-10"`; string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back != day {
		t.Errorf("Unmarshal() = %s, want %s", back, day)
	}
}

func TestDate_Compare(t *testing.T) {
	a := NewDate(2025, time.January, 10)
	b := NewDate(2025, time.January, 11)
	if a.Compare(b) >= 0 || b.Compare(a) <= 0 || a.Compare(a) != 0 {
		t.Errorf("Compare ordering wrong: a<b=%d b>a=%d a==a=%d", a.Compare(b), b.Compare(a), a.Compare(a))
	}
}
