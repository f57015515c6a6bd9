// Package emotion classifies free-text emotion labels against a three level
// wheel (primary, secondary, leaf) and parses stored emotion lists.
package emotion

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// NeutralColor is used for labels the wheel does not know
const NeutralColor = "#999999"

//go:embed wheel.yaml
var wheelYAML []byte

// Primary is a top level emotion with its display colour
type Primary struct {
	Name        string      `yaml:"name"`
	Color       string      `yaml:"color"`
	Secondaries []Secondary `yaml:"secondaries"`
}

// Secondary groups leaf emotions under a primary
type Secondary struct {
	Name   string   `yaml:"name"`
	Leaves []string `yaml:"leaves"`
}

// Depth says where in the wheel a label matched
type Depth int

const (
	DepthPrimary Depth = iota + 1
	DepthSecondary
	DepthLeaf
)

func (d Depth) String() string {
	switch d {
	case DepthPrimary:
		return "primary"
	case DepthSecondary:
		return "secondary"
	case DepthLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// Match is the result of classifying a label
type Match struct {
	Label     string
	Primary   string
	Secondary string
	Color     string
	Depth     Depth
}

// Wheel is the immutable emotion taxonomy, safe for concurrent reads
type Wheel struct {
	primaries []Primary
	byPrimary map[string]int
}

var (
	defaultWheel *Wheel
	defaultOnce  sync.Once
)

// Default returns the built-in wheel, decoded on first use
func Default() *Wheel {
	defaultOnce.Do(func() {
		w, err := Load(wheelYAML)
		if err != nil {
			panic(fmt.Sprintf("emotion: built-in wheel is invalid: %v", err))
		}
		defaultWheel = w
	})
	return defaultWheel
}

// Load decodes a wheel from YAML, keeping the authored order
func Load(data []byte) (*Wheel, error) {
	var primaries []Primary
	if err := yaml.Unmarshal(data, &primaries); err != nil {
		return nil, fmt.Errorf("failed to decode emotion wheel: %w", err)
	}
	if len(primaries) == 0 {
		return nil, fmt.Errorf("emotion wheel has no primaries")
	}

	w := &Wheel{
		primaries: primaries,
		byPrimary: make(map[string]int, len(primaries)),
	}
	for i, p := range primaries {
		if p.Name == "" || p.Color == "" {
			return nil, fmt.Errorf("emotion wheel entry %d needs a name and a colour", i)
		}
		if _, dup := w.byPrimary[p.Name]; !dup {
			w.byPrimary[p.Name] = i
		}
	}
	return w, nil
}

// Primaries returns the primaries in authored order
func (w *Wheel) Primaries() []Primary {
	out := make([]Primary, len(w.primaries))
	copy(out, w.primaries)
	return out
}

// Classify finds a label in the wheel. Primary names win outright; after
// that each primary is walked in order, checking a secondary's name before
// its leaves, so a label listed in several places takes the first hit.
// Matching is exact and case sensitive.
func (w *Wheel) Classify(label string) (Match, bool) {
	if i, ok := w.byPrimary[label]; ok {
		p := w.primaries[i]
		return Match{Label: label, Primary: p.Name, Color: p.Color, Depth: DepthPrimary}, true
	}

	for _, p := range w.primaries {
		for _, s := range p.Secondaries {
			if s.Name == label {
				return Match{Label: label, Primary: p.Name, Secondary: s.Name, Color: p.Color, Depth: DepthSecondary}, true
			}
		}
		for _, s := range p.Secondaries {
			for _, leaf := range s.Leaves {
				if leaf == label {
					return Match{Label: label, Primary: p.Name, Secondary: s.Name, Color: p.Color, Depth: DepthLeaf}, true
				}
			}
		}
	}
	return Match{Label: label, Color: NeutralColor}, false
}

// ColorOf returns the colour of the primary owning label, or NeutralColor
func (w *Wheel) ColorOf(label string) string {
	m, _ := w.Classify(label)
	return m.Color
}

// ColorOf classifies against the built-in wheel
func ColorOf(label string) string {
	return Default().ColorOf(label)
}
