// Package dot renders a finalized story as Graphviz DOT text: the plot
// diagram plus the friendship graph. It only consumes the read-only
// accessors of the story; all visual policy lives here.
package dot

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Style is the render configuration, loadable from a YAML file.
type Style struct {
	// RankDir is the drawing direction: LR, TB, BT, or RL.
	RankDir string `yaml:"rank_dir"`

	// ColorNames makes labels follow their line colors.
	ColorNames bool `yaml:"color_names"`

	Fonts struct {
		Timeline   string `yaml:"timeline"`   // timeline cluster labels
		Bridge     string `yaml:"bridge"`     // timeline bridge labels
		Friendship string `yaml:"friendship"` // friendship graph font
	} `yaml:"fonts"`

	Colors struct {
		Default  string `yaml:"default"`  // fallback line color
		CapEdge  string `yaml:"cap_edge"` // opener/closer gradient partner
		CapFill  string `yaml:"cap_fill"` // opener/closer node gradient
		Fallback string `yaml:"fallback"` // friendship node default
	} `yaml:"colors"`

	Markers struct {
		Opener string `yaml:"opener"` // node shape for start caps
		Closer string `yaml:"closer"` // node shape for finish caps
	} `yaml:"markers"`
}

// DefaultStyle mirrors the classic storyboard look.
func DefaultStyle() *Style {
	s := &Style{RankDir: "LR"}
	s.Fonts.Timeline = "sans bold"
	s.Fonts.Bridge = "sans italic"
	s.Fonts.Friendship = "signature"
	s.Colors.Default = "#00000088"
	s.Colors.CapEdge = "#FFFFFF33"
	s.Colors.CapFill = "#EDEDED99"
	s.Colors.Fallback = "#111111"
	s.Markers.Opener = "egg"
	s.Markers.Closer = "octagon"
	return s
}

// LoadStyle reads a YAML style file, filling omitted fields from the
// defaults. An empty path returns the defaults unchanged.
func LoadStyle(path string) (*Style, error) {
	s := DefaultStyle()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read style file: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse style file: %w", err)
	}
	if s.RankDir == "" {
		s.RankDir = "LR"
	}
	return s, nil
}

// gradientAngle maps the rank direction to the cap gradient rotation.
func (s *Style) gradientAngle() string {
	switch s.RankDir {
	case "TB":
		return "270"
	case "BT":
		return "90"
	case "RL":
		return "180"
	default:
		return "0"
	}
}
