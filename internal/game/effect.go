// internal/game/effect.go
//
// Card effect variants. Each kind is its own struct and the interpreter
// dispatches with an exhaustive type switch (see interpreter.go). Adding a
// kind means adding a struct here and a case there.

package game

// Effect is one step of a card's effect list.
type Effect interface {
	Kind() string
	effect()
}

// Canvas property names addressable by SetCanvasProp.
const (
	PropWidthMode       = "widthMode"
	PropHeightMode      = "heightMode"
	PropPadding         = "padding"
	PropLayout          = "layout"
	PropShape           = "shape"
	PropFillType        = "fillType"
	PropBorderRadius    = "borderRadius"
	PropActiveColor     = "activeColor"
	PropBackgroundColor = "backgroundColor"
	PropStrokeColor     = "strokeColor"
	PropFontFamily      = "fontFamily"
	PropActiveTextStyle = "activeTextStyle"
)

// Color targets for ApplyColorTo.
const (
	TargetFill   = "fill"
	TargetStroke = "stroke"
	TargetText   = "text"
	TargetIcon   = "icon"
)

// SetCanvasProp assigns a value to a named canvas property. Value carries
// string properties, Number integer ones and Style the activeTextStyle.
type SetCanvasProp struct {
	Property string
	Value    string
	Number   int
	Style    *TextStyle
}

// DrawCards draws Amount cards through the lifecycle manager.
type DrawCards struct{ Amount int }

// ModifyFocus adds Amount (possibly negative) to current focus.
type ModifyFocus struct{ Amount int }

// GenerateCard adds one uniformly random card from Pool to the hand.
type GenerateCard struct{ Pool []string }

// GenerateSetCards adds every card in Pool, in order, to the hand.
type GenerateSetCards struct{ Pool []string }

// GeneratePaletteCard adds Amount temporary cards drawn with replacement
// from the active palette's card list.
type GeneratePaletteCard struct{ Amount int }

// SetPalette switches the canvas to a palette.
type SetPalette struct{ PaletteID string }

// AddIcon replaces the canvas icon with a literal.
type AddIcon struct{ Icon IconElement }

// AddText replaces the canvas text with a literal in a named style.
type AddText struct {
	Text      string
	StyleName string
}

// AddEncounterText places the encounter's default text on the canvas.
type AddEncounterText struct{}

// AddEncounterIcon places the encounter's default icon on the canvas.
type AddEncounterIcon struct{}

// ApplyColorTo spends the active color on a target (fill/stroke/text/icon).
type ApplyColorTo struct{ Target string }

// ModifyProperty adds Amount to a numeric canvas property (padding).
type ModifyProperty struct {
	Property string
	Amount   int
}

// SetActiveColorFromPalette loads a canvas color into the active color
// buff, either at Index (mod len) or at random.
type SetActiveColorFromPalette struct {
	Index  int
	Random bool
}

// UnknownEffect is a decoded kind the engine does not know. It is a no-op.
type UnknownEffect struct{ Type string }

func (SetCanvasProp) Kind() string             { return "SET_CANVAS_PROP" }
func (DrawCards) Kind() string                 { return "DRAW_CARDS" }
func (ModifyFocus) Kind() string               { return "MODIFY_FOCUS" }
func (GenerateCard) Kind() string              { return "GENERATE_CARD" }
func (GenerateSetCards) Kind() string          { return "GENERATE_SET_CARDS" }
func (GeneratePaletteCard) Kind() string       { return "GENERATE_PALETTE_CARD" }
func (SetPalette) Kind() string                { return "SET_PALETTE" }
func (AddIcon) Kind() string                   { return "ADD_ICON" }
func (AddText) Kind() string                   { return "ADD_TEXT" }
func (AddEncounterText) Kind() string          { return "ADD_ENCOUNTER_TEXT" }
func (AddEncounterIcon) Kind() string          { return "ADD_ENCOUNTER_ICON" }
func (ApplyColorTo) Kind() string              { return "APPLY_COLOR_TO" }
func (ModifyProperty) Kind() string            { return "MODIFY_PROPERTY" }
func (SetActiveColorFromPalette) Kind() string { return "SET_ACTIVE_COLOR_FROM_PALETTE" }
func (u UnknownEffect) Kind() string           { return u.Type }

func (SetCanvasProp) effect()             {}
func (DrawCards) effect()                 {}
func (ModifyFocus) effect()               {}
func (GenerateCard) effect()              {}
func (GenerateSetCards) effect()          {}
func (GeneratePaletteCard) effect()       {}
func (SetPalette) effect()                {}
func (AddIcon) effect()                   {}
func (AddText) effect()                   {}
func (AddEncounterText) effect()          {}
func (AddEncounterIcon) effect()          {}
func (ApplyColorTo) effect()              {}
func (ModifyProperty) effect()            {}
func (SetActiveColorFromPalette) effect() {}
func (UnknownEffect) effect()             {}
