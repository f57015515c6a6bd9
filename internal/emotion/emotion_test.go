package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorOf(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Anger", "#E63946"},
		{"Aggressive", "#E63946"},
		{"Enraged", "#E63946"},
		{"Fear", "#2D6A4F"},
		{"Frustrated", "#E63946"},
		{"Annoyed", "#E63946"},
		{"Lonely", "#457B9D"},
		{"Curious", "#F4A261"},
		{"Speechless", "#2A9D8F"},
		{"Self-doubting", "#2D6A4F"},
		// duplicated labels resolve to the first primary walked
		{"Guilty", "#8B5E83"},
		{"Inferior", "#457B9D"},
		{"Excited", "#F4A261"},
		{"Eager", "#F4A261"},
		{"Judgmental", "#E63946"},
		{"Unknown", NeutralColor},
		{"", NeutralColor},
		{"happy", NeutralColor},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, ColorOf(tt.label))
		})
	}
}

func TestClassify(t *testing.T) {
	w := Default()

	m, ok := w.Classify("Hopeful")
	require.True(t, ok)
	assert.Equal(t, "Happy", m.Primary)
	assert.Equal(t, "Optimistic", m.Secondary)
	assert.Equal(t, DepthLeaf, m.Depth)

	m, ok = w.Classify("Bored")
	require.True(t, ok)
	assert.Equal(t, "Sad", m.Primary)
	assert.Equal(t, DepthSecondary, m.Depth)

	m, ok = w.Classify("Surprise")
	require.True(t, ok)
	assert.Equal(t, DepthPrimary, m.Depth)
	assert.Equal(t, "#2A9D8F", m.Color)

	_, ok = w.Classify("Meh")
	assert.False(t, ok)
}

func TestPrimariesKeepOrder(t *testing.T) {
	var names []string
	for _, p := range Default().Primaries() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Anger", "Disgust", "Sad", "Happy", "Surprise", "Fear"}, names)
}

func TestLoadRejectsBadWheel(t *testing.T) {
	_, err := Load([]byte("[]"))
	assert.Error(t, err)

	_, err = Load([]byte("- name: Calm\n"))
	assert.Error(t, err)

	_, err = Load([]byte("not: [valid"))
	assert.Error(t, err)
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{}},
		{"blank", "   ", []string{}},
		{"json array", `["Happy","Sad"]`, []string{"Happy", "Sad"}},
		{"json array trims", `[" Happy ", ""]`, []string{"Happy"}},
		{"empty json array", `[]`, []string{}},
		{"single quotes", `['Happy', 'Sad']`, []string{"Happy", "Sad"}},
		{"unquoted brackets", `[Happy, Proud]`, []string{"Happy", "Proud"}},
		{"trailing junk after bracket", `["Happy", "Sad"] extra`, []string{"Happy", "Sad"}},
		{"comma separated", "Happy, Sad", []string{"Happy", "Sad"}},
		{"space separated", "Happy Sad  Proud", []string{"Happy", "Sad", "Proud"}},
		{"mixed separators", ",Happy,, Sad ,", []string{"Happy", "Sad"}},
		{"single", "Happy", []string{"Happy"}},
		{"json happy proud", `["Happy","Proud"]`, []string{"Happy", "Proud"}},
		{"comma happy proud", "Happy, Proud", []string{"Happy", "Proud"}},
		{"space happy proud", "Happy Proud", []string{"Happy", "Proud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseList(tt.input))
		})
	}
}

func TestFormatList(t *testing.T) {
	assert.Equal(t, `["Happy","Sad"]`, FormatList([]string{"Happy", " Sad ", ""}))
	assert.Equal(t, `[]`, FormatList(nil))
	assert.Equal(t, []string{"Happy", "Sad"}, ParseList(FormatList([]string{"Happy", "Sad"})))
}
