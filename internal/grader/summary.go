package grader

import (
	"fmt"
	"strings"

	"github.com/ScarletRegal/ui-deckbuilder/internal/game"
)

// Summarize renders the canvas as the short list of human-readable facts
// sent to the grading model.
func Summarize(c game.Canvas) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- Layout: %s\n", c.Layout)
	fmt.Fprintf(&b, "- Shape: %s\n", c.Shape)
	fmt.Fprintf(&b, "- Fill: %s (%s)\n", c.FillType, orNone(c.BackgroundColor))
	fmt.Fprintf(&b, "- Stroke: %s\n", orNone(c.StrokeColor))
	fmt.Fprintf(&b, "- Padding: %dpx\n", c.Padding)

	if c.Icon != nil {
		fmt.Fprintf(&b, "- Icon: '%s' (Color: %s)\n", c.Icon.Name, c.Icon.Color)
	} else {
		b.WriteString("- Icon: none\n")
	}

	if c.Text != nil {
		fmt.Fprintf(&b, "- Text: %q (Style: %s, Color: %s)", c.Text.Text, c.Text.StyleName, c.Text.Color)
	} else {
		b.WriteString("- Text: none")
	}
	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
