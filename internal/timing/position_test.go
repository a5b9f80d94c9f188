package timing

import "testing"

func TestBeatsPerBar(t *testing.T) {
	cases := []struct {
		sig  string
		want int
	}{
		{"4/4", 4},
		{"3/4", 3},
		{"12/8", 12},
		{"", DefaultBeatsPerBar},
		{"waltz", DefaultBeatsPerBar},
		{"0/4", DefaultBeatsPerBar},
		{"x/4", DefaultBeatsPerBar},
	}
	for _, tc := range cases {
		if got := BeatsPerBar(tc.sig); got != tc.want {
			t.Fatalf("BeatsPerBar(%q) = %d, want %d", tc.sig, got, tc.want)
		}
	}
}

func TestFromBeats(t *testing.T) {
	cases := []struct {
		beats float64
		bpb   int
		want  string
	}{
		{0, 4, "1:1"},
		{3, 4, "1:4"},
		{4, 4, "2:1"},
		{5, 4, "2:2"},
		{8, 4, "3:1"},
		{4.5, 4, "2:1.5"},
		{3, 3, "2:1"},
	}
	for _, tc := range cases {
		if got := FromBeats(tc.beats, tc.bpb).String(); got != tc.want {
			t.Fatalf("FromBeats(%v, %d) = %q, want %q", tc.beats, tc.bpb, got, tc.want)
		}
	}
}

func TestTotalBeatsRoundTrip(t *testing.T) {
	for _, beats := range []float64{0, 1, 3.5, 4, 17} {
		pos := FromBeats(beats, 4)
		if got := pos.TotalBeats(4); got != beats {
			t.Fatalf("TotalBeats(FromBeats(%v)) = %v", beats, got)
		}
	}
}

func TestParse(t *testing.T) {
	pos, err := Parse("12:3:480")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if pos.Bar != 12 || pos.Beat != 3 || pos.Ticks != 480 {
		t.Fatalf("pos = %+v", pos)
	}

	for _, bad := range []string{"", "5", "0:1", "1:0", "1:2:-1", "a:b", "1:2:3:4"} {
		if _, err := Parse(bad); err == nil {
			t.Fatalf("Parse(%q) succeeded, want error", bad)
		}
	}
}

func TestStringWithTicks(t *testing.T) {
	pos := Position{Bar: 2, Beat: 1, Ticks: 240}
	if got := pos.String(); got != "2:1:240" {
		t.Fatalf("String() = %q, want 2:1:240", got)
	}
}
