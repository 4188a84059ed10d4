package utils

import (
	"regexp"
	"strings"
	"testing"
)

func TestDonationIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^AFG-[A-Z0-9]{10}$`)

	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		id := DonationID()
		if !pattern.MatchString(id) {
			t.Fatalf("generated id %q does not match the donation id format", id)
		}
		if seen[id] {
			t.Fatalf("generated duplicate id %q within 500 draws", id)
		}
		seen[id] = true
	}
}

func TestValidDonationID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "canonical uppercase", input: "AFG-9X2K4L8M1Q", want: true},
		{name: "lowercase suffix accepted", input: "AFG-9x2k4l8m1q", want: true},
		{name: "fully lowercased accepted", input: "afg-9x2k4l8m1q", want: true},
		{name: "mixed-case prefix accepted", input: "Afg-9X2K4L8M1Q", want: true},
		{name: "surrounding whitespace", input: "  AFG-9X2K4L8M1Q ", want: true},
		{name: "missing prefix", input: "9X2K4L8M1QAB", want: false},
		{name: "wrong prefix", input: "AFX-9X2K4L8M1Q", want: false},
		{name: "suffix too short", input: "AFG-9X2K4L8M", want: false},
		{name: "suffix too long", input: "AFG-9X2K4L8M1Q7", want: false},
		{name: "symbol in suffix", input: "AFG-9X2K4L8M1!", want: false},
		{name: "empty", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidDonationID(tt.input); got != tt.want {
				t.Fatalf("ValidDonationID(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDonationID(t *testing.T) {
	if got := NormalizeDonationID(" afg-9x2k4l8m1q "); got != "AFG-9X2K4L8M1Q" {
		t.Fatalf("NormalizeDonationID = %q, want AFG-9X2K4L8M1Q", got)
	}
}

func TestNanoIDSize(t *testing.T) {
	if got := NanoIDSize(0); len(got) != NanoidSize {
		t.Fatalf("NanoIDSize(0) length = %d, want default %d", len(got), NanoidSize)
	}
	if got := NanoIDSize(21); len(got) != 21 {
		t.Fatalf("NanoIDSize(21) length = %d", len(got))
	}
	if strings.ContainsAny(NanoID(), "-_") {
		t.Fatal("NanoID must stay alphanumeric")
	}
}
