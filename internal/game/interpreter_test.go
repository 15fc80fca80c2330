package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScarletRegal/ui-deckbuilder/internal/game"
)

func TestActiveColorIsSpentOnce(t *testing.T) {
	e := newEngine(t)
	s := started(t, e)

	s = e.Apply(s, game.SetActiveColorFromPalette{Index: 1})
	assert.Equal(t, "#222222", s.Player.Canvas.ActiveColor)

	s = e.Apply(s, game.ApplyColorTo{Target: game.TargetFill})
	assert.Equal(t, "#222222", s.Player.Canvas.BackgroundColor)
	assert.Empty(t, s.Player.Canvas.ActiveColor)

	// Nothing left to spend.
	s = e.Apply(s, game.ApplyColorTo{Target: game.TargetStroke})
	assert.Empty(t, s.Player.Canvas.StrokeColor)
}

func TestPaletteIndexWraps(t *testing.T) {
	e := newEngine(t)
	s := started(t, e)

	assert.Equal(t, "#111111", e.Apply(s, game.SetActiveColorFromPalette{Index: 2}).Player.Canvas.ActiveColor)
	assert.Equal(t, "#222222", e.Apply(s, game.SetActiveColorFromPalette{Index: -1}).Player.Canvas.ActiveColor)
	assert.Equal(t, "#111111", e.Apply(s, game.SetActiveColorFromPalette{Random: true}).Player.Canvas.ActiveColor)

	s.Player.Canvas.Colors = nil
	assert.Empty(t, e.Apply(s, game.SetActiveColorFromPalette{}).Player.Canvas.ActiveColor)
}

func TestFillTypeUsesActiveColor(t *testing.T) {
	e := newEngine(t)
	s := started(t, e)

	s = e.Apply(s, game.SetCanvasProp{Property: game.PropActiveColor, Value: "#ABCDEF"})
	s = e.Apply(s, game.SetCanvasProp{Property: game.PropFillType, Value: string(game.FillOpaque)})
	assert.Equal(t, "#ABCDEF", s.Player.Canvas.BackgroundColor)
	assert.Empty(t, s.Player.Canvas.ActiveColor)

	// Switching back to none keeps the color but paints nothing new.
	s = e.Apply(s, game.SetCanvasProp{Property: game.PropActiveColor, Value: "#000000"})
	s = e.Apply(s, game.SetCanvasProp{Property: game.PropFillType, Value: string(game.FillNone)})
	assert.Equal(t, "#ABCDEF", s.Player.Canvas.BackgroundColor)
	assert.Equal(t, "#000000", s.Player.Canvas.ActiveColor)
}

func TestTextStyleBuff(t *testing.T) {
	e := newEngine(t)
	s := started(t, e)
	heading := game.TextStyle{Name: "Heading", FontSize: 32, FontWeight: 700}

	s = e.Apply(s, game.SetCanvasProp{Property: game.PropActiveTextStyle, Style: &heading})
	require.NotNil(t, s.Player.Canvas.ActiveTextStyle)
	assert.Len(t, s.Player.Canvas.TextStyles, 2)

	// Re-activating an existing style does not duplicate it.
	s = e.Apply(s, game.SetCanvasProp{Property: game.PropActiveTextStyle, Style: &heading})
	assert.Len(t, s.Player.Canvas.TextStyles, 2)

	s = e.Apply(s, game.SetCanvasProp{Property: game.PropActiveColor, Value: "#FF0000"})
	s = e.Apply(s, game.AddEncounterText{})
	require.NotNil(t, s.Player.Canvas.Text)
	assert.Equal(t, game.TextElement{Text: "Buy", StyleName: "Heading", Color: "#FF0000"}, *s.Player.Canvas.Text)
	assert.Nil(t, s.Player.Canvas.ActiveTextStyle)
	assert.Empty(t, s.Player.Canvas.ActiveColor)
}

func TestAddTextNeedsResolvableStyle(t *testing.T) {
	e := newEngine(t)
	s := started(t, e)
	s = e.Apply(s, game.SetCanvasProp{Property: game.PropActiveColor, Value: "#FF0000"})

	missing := e.Apply(s, game.AddText{Text: "Click me", StyleName: "Label"})
	assert.Nil(t, missing.Player.Canvas.Text)
	assert.Equal(t, "#FF0000", missing.Player.Canvas.ActiveColor)

	named := e.Apply(s, game.AddText{Text: "Click me", StyleName: "Body"})
	require.NotNil(t, named.Player.Canvas.Text)
	assert.Equal(t, "Body", named.Player.Canvas.Text.StyleName)
	assert.Equal(t, "#FF0000", named.Player.Canvas.Text.Color)
	assert.Empty(t, named.Player.Canvas.ActiveColor)
}

func TestEncounterIconAndColorTargets(t *testing.T) {
	e := newEngine(t)
	s := started(t, e)

	s = e.Apply(s, game.AddEncounterIcon{})
	require.NotNil(t, s.Player.Canvas.Icon)
	assert.Equal(t, game.IconElement{Name: "cart", Color: "#333333", Size: 24}, *s.Player.Canvas.Icon)

	s = e.Apply(s, game.AddEncounterText{})
	require.NotNil(t, s.Player.Canvas.Text)
	assert.Equal(t, "#333333", s.Player.Canvas.Text.Color)

	s = e.Apply(s, game.SetCanvasProp{Property: game.PropActiveColor, Value: "#00FF00"})
	s = e.Apply(s, game.ApplyColorTo{Target: game.TargetIcon})
	assert.Equal(t, "#00FF00", s.Player.Canvas.Icon.Color)

	s = e.Apply(s, game.SetCanvasProp{Property: game.PropActiveColor, Value: "#0000FF"})
	s = e.Apply(s, game.ApplyColorTo{Target: game.TargetText})
	assert.Equal(t, "#0000FF", s.Player.Canvas.Text.Color)
	assert.Equal(t, "#00FF00", s.Player.Canvas.Icon.Color)
}

func TestEncounterContentNeedsInitializedCanvas(t *testing.T) {
	e := newEngine(t)
	s := started(t, e)
	s.Player.Canvas.TextStyles = nil

	s = e.Apply(s, game.AddEncounterIcon{})
	s = e.Apply(s, game.AddEncounterText{})
	assert.Nil(t, s.Player.Canvas.Icon)
	assert.Nil(t, s.Player.Canvas.Text)
}

func TestSetPaletteAndGenerators(t *testing.T) {
	e := newEngine(t)
	s := started(t, e)
	hand := len(s.Player.Hand)

	s = e.Apply(s, game.SetPalette{PaletteID: "missing"})
	assert.Equal(t, "p1", s.Player.Canvas.ActivePaletteID)

	s = e.Apply(s, game.GenerateSetCards{Pool: []string{"fill", "nope", "paint"}})
	require.Len(t, s.Player.Hand, hand+2)
	assert.Equal(t, "fill", s.Player.Hand[hand].TemplateID)
	assert.Equal(t, "paint", s.Player.Hand[hand+1].TemplateID)
	assert.False(t, s.Player.Hand[hand].Temporary)

	s = e.Apply(s, game.GenerateCard{Pool: []string{"label", "fill"}})
	assert.Equal(t, "label", s.Player.Hand[len(s.Player.Hand)-1].TemplateID)

	s = e.Apply(s, game.GenerateCard{})
	assert.Len(t, s.Player.Hand, hand+3)
}

func TestCanvasPropertyAssignment(t *testing.T) {
	e := newEngine(t)
	s := started(t, e)

	for _, eff := range []game.SetCanvasProp{
		{Property: game.PropLayout, Value: string(game.LayoutColumn)},
		{Property: game.PropShape, Value: string(game.ShapeRounded)},
		{Property: game.PropWidthMode, Value: string(game.DimensionFluid)},
		{Property: game.PropHeightMode, Value: string(game.DimensionFit)},
		{Property: game.PropPadding, Number: 8},
		{Property: game.PropBorderRadius, Number: 12},
		{Property: game.PropStrokeColor, Value: "#111111"},
		{Property: "glow", Value: "lots"},
	} {
		s = e.Apply(s, eff)
	}
	s = e.Apply(s, game.ModifyProperty{Property: game.PropPadding, Amount: -4})
	s = e.Apply(s, game.ModifyProperty{Property: game.PropBorderRadius, Amount: 4})

	c := s.Player.Canvas
	assert.Equal(t, game.LayoutColumn, c.Layout)
	assert.Equal(t, game.ShapeRounded, c.Shape)
	assert.Equal(t, game.DimensionFluid, c.WidthMode)
	assert.Equal(t, game.DimensionFit, c.HeightMode)
	assert.Equal(t, 4, c.Padding)
	assert.Equal(t, 12, c.BorderRadius)
	assert.Equal(t, "#111111", c.StrokeColor)
}
