package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		seconds   int
		formatted string
	}{
		{name: "minutes and seconds", input: "10:00", seconds: 600, formatted: "00:10:00"},
		{name: "full form", input: "1:23:45", seconds: 5025, formatted: "01:23:45"},
		{name: "two digit hours", input: "12:00:10", seconds: 43210, formatted: "12:00:10"},
		{name: "zero", input: "00:00", seconds: 0, formatted: "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDuration(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.seconds, d.Seconds)
			assert.Equal(t, tt.formatted, d.Formatted)
		})
	}
}

func TestParseDuration_Invalid(t *testing.T) {
	for _, input := range []string{"", "5", "1:2:3", "abc", "10:0", "123:00:00", "-1:00:00"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseDuration(input)
			assert.ErrorIs(t, err, ErrInvalidDuration)
		})
	}
}

func TestDurationFromSeconds(t *testing.T) {
	d := DurationFromSeconds(3725)
	assert.Equal(t, 3725, d.Seconds)
	assert.Equal(t, "01:02:05", d.Formatted)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.NoError(t, Config{DataDir: "/tmp/x", DatabaseFile: "runorder.db"}.Validate())
	assert.ErrorIs(t, Config{DatabaseFile: "sub/dir.db"}.Validate(), ErrDatabaseFileInvalid)
}
