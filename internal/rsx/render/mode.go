package render

import (
	"fmt"
	"strings"
)

// Mode selects the output style: a single line, or one node per line with
// a fixed indentation width per level.
type Mode struct {
	newlines bool
	width    int
}

var (
	Lined   = Mode{}
	Indent0 = Mode{newlines: true, width: 0}
	Indent2 = Mode{newlines: true, width: 2}
	Indent4 = Mode{newlines: true, width: 4}
)

// Indent returns the newline mode with the given per-level width.
// Only 0, 2 and 4 are supported.
func Indent(width int) (Mode, error) {
	switch width {
	case 0:
		return Indent0, nil
	case 2:
		return Indent2, nil
	case 4:
		return Indent4, nil
	}
	return Mode{}, fmt.Errorf("render: unsupported indent width %d", width)
}

// ParseMode maps a template mode name (lined, btfy0, btfy2, btfy4) to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.TrimSpace(name) {
	case "lined":
		return Lined, nil
	case "btfy0":
		return Indent0, nil
	case "btfy2":
		return Indent2, nil
	case "btfy4":
		return Indent4, nil
	}
	return Mode{}, fmt.Errorf("render: unknown mode %q", name)
}

func (m Mode) String() string {
	if !m.newlines {
		return "lined"
	}
	return fmt.Sprintf("btfy%d", m.width)
}

func (m Mode) nl() string {
	if m.newlines {
		return "\n"
	}
	return ""
}

func (m Mode) indent(depth int) string {
	if !m.newlines || m.width == 0 || depth <= 0 {
		return ""
	}
	return strings.Repeat(" ", m.width*depth)
}

// MarshalText lets Mode round-trip through config files.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
