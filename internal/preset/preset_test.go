package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	p, ok := Lookup("Deep 50/10")
	require.True(t, ok)
	assert.Equal(t, Preset{"Deep 50/10", 50, 10, 20, 3}, p)
	assert.Equal(t, 3000, p.WorkSeconds())
	assert.Equal(t, 600, p.BreakSeconds())
	assert.Equal(t, 1200, p.LongBreakSeconds())
}

func TestLookup_CustomAndUnknownAreAbsent(t *testing.T) {
	for _, name := range []string{CustomName, "", "classic 25/5", "Pomodoro"} {
		_, ok := Lookup(name)
		assert.False(t, ok, "Lookup(%q)", name)
	}
}

func TestNames_Order(t *testing.T) {
	assert.Equal(t, []string{
		"Classic 25/5",
		"Quick 15/3",
		"Deep 50/10",
		"Gentle 20/5",
		"Custom",
	}, Names())
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := All()
	require.Len(t, all, 4)
	all[0].Work = 1

	p, _ := Lookup("Classic 25/5")
	assert.Equal(t, 25, p.Work)
}

func TestDefault(t *testing.T) {
	assert.Equal(t, "Classic 25/5", Default.Name)
	assert.Equal(t, 1500, Default.WorkSeconds())
}

func TestCustom(t *testing.T) {
	p, err := Custom("30", " 7 ", "20", "2")
	require.NoError(t, err)
	assert.Equal(t, Preset{CustomName, 30, 7, 20, 2}, p)
}

func TestCustom_Invalid(t *testing.T) {
	tests := []struct {
		name                          string
		work, brk, longBreak, interval string
		wantMsg                       string
	}{
		{"empty", "", "5", "15", "4", "work minutes is required"},
		{"non numeric", "abc", "5", "15", "4", "work minutes must be a number"},
		{"fractional", "25", "2.5", "15", "4", "break minutes must be a whole number"},
		{"zero", "25", "5", "0", "4", "long break minutes must be positive"},
		{"negative interval", "25", "5", "15", "-1", "long break interval must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Custom(tt.work, tt.brk, tt.longBreak, tt.interval)
			require.ErrorIs(t, err, ErrInvalidConfiguration)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
