package format

import (
	"testing"
	"time"
)

func TestBytes(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}
	for _, c := range cases {
		if got := Bytes(c.in); got != c.want {
			t.Errorf("Bytes(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRate(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0 B/s"},
		{-5, "0 B/s"},
		{100, "100 B/s"},
		{1024, "1.0 KiB/s"},
		{2.5 * 1024 * 1024, "2.5 MiB/s"},
	}
	for _, c := range cases {
		if got := Rate(c.in); got != c.want {
			t.Errorf("Rate(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{500 * time.Millisecond, "0s"},
		{45 * time.Second, "45s"},
		{5*time.Minute + 30*time.Second, "5m 30s"},
		{2*time.Hour + 15*time.Minute, "2h 15m"},
		{75 * time.Hour, "3d 3h"},
	}
	for _, c := range cases {
		if got := Duration(c.in); got != c.want {
			t.Errorf("Duration(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTimeSince(t *testing.T) {
	if got := TimeSince(time.Time{}); got != "never" {
		t.Errorf("TimeSince(zero) = %q, want %q", got, "never")
	}
	if got := TimeSince(time.Now()); got != "just now" {
		t.Errorf("TimeSince(now) = %q, want %q", got, "just now")
	}
	if got := TimeSince(time.Now().Add(-30 * time.Minute)); got != "30m ago" {
		t.Errorf("TimeSince(-30m) = %q, want %q", got, "30m ago")
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abc", 2, "ab"},
		{"anything", 0, ""},
	}
	for _, c := range cases {
		if got := TruncateWithEllipsis(c.in, c.width); got != c.want {
			t.Errorf("TruncateWithEllipsis(%q, %d) = %q, want %q", c.in, c.width, got, c.want)
		}
	}
}
