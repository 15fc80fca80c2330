// internal/game/interpreter.go
//
// Effect interpreter. Applies one effect to the player's canvas, hand and
// focus.
//
// Rules:
//   - Effects never fail. A lookup miss (card, palette, style, empty pool)
//     makes that effect a no-op and the rest of the card still resolves.
//   - ActiveColor and ActiveTextStyle are consume-once buffs: an effect that
//     uses one clears it. An effect that no-ops leaves the buffs untouched.
//   - There is at most one text and one icon; assigning replaces.

package game

import "slices"

// Apply resolves a single effect against the state's player.
func (e *Engine) Apply(s State, eff Effect) State {
	p := s.Player
	c := p.Canvas

	switch eff := eff.(type) {
	case SetCanvasProp:
		c = e.setCanvasProp(c, eff)

	case DrawCards:
		p = e.Draw(p, eff.Amount)

	case ModifyFocus:
		p.Focus += eff.Amount

	case GenerateCard:
		if len(eff.Pool) == 0 {
			break
		}
		if tpl, ok := e.catalog.Card(eff.Pool[e.rng.IntN(len(eff.Pool))]); ok {
			p.Hand = slices.Concat(p.Hand, []Card{e.instance(tpl)})
		}

	case GenerateSetCards:
		var generated []Card
		for _, id := range eff.Pool {
			if tpl, ok := e.catalog.Card(id); ok {
				generated = append(generated, e.instance(tpl))
			}
		}
		p.Hand = slices.Concat(p.Hand, generated)

	case GeneratePaletteCard:
		pal, ok := e.catalog.Palette(c.ActivePaletteID)
		if !ok || len(pal.Cards) == 0 {
			break
		}
		var generated []Card
		for range eff.Amount {
			if tpl, ok := e.catalog.Card(pal.Cards[e.rng.IntN(len(pal.Cards))]); ok {
				inst := e.instance(tpl)
				inst.Temporary = true
				generated = append(generated, inst)
			}
		}
		p.Hand = slices.Concat(p.Hand, generated)

	case SetPalette:
		if pal, ok := e.catalog.Palette(eff.PaletteID); ok {
			c.ActivePaletteID = pal.ID
			c.PaletteName = pal.Name
			c.Colors = slices.Clone(pal.Colors)
		}

	case AddIcon:
		icon := eff.Icon
		c.Icon = &icon

	case AddText:
		style, ok := c.resolveStyle(eff.StyleName)
		if !ok {
			break
		}
		c.Text = &TextElement{Text: eff.Text, StyleName: style.Name, Color: e.brush(c)}
		c.ActiveColor = ""
		c.ActiveTextStyle = nil

	case AddEncounterText:
		if s.CurrentEncounter == nil || s.CurrentEncounter.DefaultText == "" || len(c.TextStyles) == 0 {
			break
		}
		var style TextStyle
		if c.ActiveTextStyle != nil {
			style = *c.ActiveTextStyle
		} else {
			style = c.TextStyles[e.rng.IntN(len(c.TextStyles))]
		}
		c.Text = &TextElement{Text: s.CurrentEncounter.DefaultText, StyleName: style.Name, Color: e.brush(c)}
		c.ActiveColor = ""
		c.ActiveTextStyle = nil

	case AddEncounterIcon:
		// An empty style list means the canvas is not initialized yet.
		if s.CurrentEncounter == nil || s.CurrentEncounter.DefaultIcon == "" || len(c.TextStyles) == 0 {
			break
		}
		c.Icon = &IconElement{Name: s.CurrentEncounter.DefaultIcon, Color: e.brush(c), Size: e.rules.IconSize}
		c.ActiveColor = ""

	case ApplyColorTo:
		if c.ActiveColor == "" {
			break
		}
		switch eff.Target {
		case TargetFill:
			c.BackgroundColor = c.ActiveColor
		case TargetStroke:
			c.StrokeColor = c.ActiveColor
		case TargetText:
			if c.Text != nil {
				t := *c.Text
				t.Color = c.ActiveColor
				c.Text = &t
			}
		case TargetIcon:
			if c.Icon != nil {
				icon := *c.Icon
				icon.Color = c.ActiveColor
				c.Icon = &icon
			}
		}
		c.ActiveColor = ""

	case ModifyProperty:
		if eff.Property == PropPadding {
			c.Padding += eff.Amount
		}

	case SetActiveColorFromPalette:
		n := len(c.Colors)
		if n == 0 {
			break
		}
		i := ((eff.Index % n) + n) % n
		if eff.Random {
			i = e.rng.IntN(n)
		}
		c.ActiveColor = c.Colors[i]

	default:
		e.log.Debug().Str("kind", kindOf(eff)).Msg("unknown effect ignored")
	}

	p.Canvas = c
	s.Player = p
	return s
}

// setCanvasProp assigns one property. fillType and activeTextStyle carry
// buff rules; unknown properties are ignored.
func (e *Engine) setCanvasProp(c Canvas, eff SetCanvasProp) Canvas {
	switch eff.Property {
	case PropFillType:
		c.FillType = FillType(eff.Value)
		if c.FillType != FillSolid && c.FillType != FillOpaque {
			break
		}
		if c.ActiveColor != "" {
			c.BackgroundColor = c.ActiveColor
			c.ActiveColor = ""
		} else if c.BackgroundColor == "" || c.BackgroundColor == "transparent" {
			c.BackgroundColor = e.rules.DefaultFillColor
		}
	case PropActiveTextStyle:
		if eff.Style == nil {
			break
		}
		if i := slices.IndexFunc(c.TextStyles, func(ts TextStyle) bool { return ts.Name == eff.Style.Name }); i >= 0 {
			existing := c.TextStyles[i]
			c.ActiveTextStyle = &existing
			break
		}
		style := *eff.Style
		c.TextStyles = slices.Concat(c.TextStyles, []TextStyle{style})
		c.ActiveTextStyle = &style
	case PropWidthMode:
		c.WidthMode = DimensionMode(eff.Value)
	case PropHeightMode:
		c.HeightMode = DimensionMode(eff.Value)
	case PropLayout:
		c.Layout = Layout(eff.Value)
	case PropShape:
		c.Shape = Shape(eff.Value)
	case PropFontFamily:
		c.FontFamily = eff.Value
	case PropActiveColor:
		c.ActiveColor = eff.Value
	case PropBackgroundColor:
		c.BackgroundColor = eff.Value
	case PropStrokeColor:
		c.StrokeColor = eff.Value
	case PropPadding:
		c.Padding = eff.Number
	case PropBorderRadius:
		c.BorderRadius = eff.Number
	default:
		e.log.Debug().Str("property", eff.Property).Msg("unknown canvas property ignored")
	}
	return c
}

// resolveStyle prefers the active style buff, then a named style.
func (c Canvas) resolveStyle(name string) (TextStyle, bool) {
	if c.ActiveTextStyle != nil {
		return *c.ActiveTextStyle, true
	}
	i := slices.IndexFunc(c.TextStyles, func(ts TextStyle) bool { return ts.Name == name })
	if i < 0 {
		return TextStyle{}, false
	}
	return c.TextStyles[i], true
}

// brush is the active color, or the default text color without one.
func (e *Engine) brush(c Canvas) string {
	if c.ActiveColor != "" {
		return c.ActiveColor
	}
	return e.rules.DefaultTextColor
}

func kindOf(eff Effect) string {
	if eff == nil {
		return "<nil>"
	}
	return eff.Kind()
}
