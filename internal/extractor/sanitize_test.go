package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "plain text unchanged",
			in:   "Acme Robotics\nSeed round",
			want: "Acme Robotics\nSeed round",
		},
		{
			name: "null bytes removed",
			in:   "Acme\x00 Robotics",
			want: "Acme Robotics",
		},
		{
			name: "control characters removed",
			in:   "Acme\x01\x02Robotics\x7f",
			want: "AcmeRobotics",
		},
		{
			name: "intra-line whitespace collapsed",
			in:   "Acme   Robotics\t\tSeed",
			want: "Acme Robotics Seed",
		},
		{
			name: "blank lines dropped",
			in:   "Acme\n\n\n   \nRobotics",
			want: "Acme\nRobotics",
		},
		{
			name: "leading and trailing whitespace trimmed",
			in:   "  \n  Acme Robotics  \n  ",
			want: "Acme Robotics",
		},
		{
			name: "only control characters",
			in:   "\x00\x01\x02",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeText(tt.in))
		})
	}
}
