// internal/catalog/decode.go
//
// YAML wire shapes and their conversion into engine types. Effects are a
// tagged union on disk (`type:` plus per-kind keys) and become one
// game.Effect struct each. Unknown kinds decode to game.UnknownEffect.

package catalog

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ScarletRegal/ui-deckbuilder/internal/game"
)

type rawCard struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	FocusCost   int           `yaml:"focus_cost"`
	Category    game.Category `yaml:"category"`
	Subcategory string        `yaml:"subcategory"`
	Exhausts    bool          `yaml:"exhausts"`
	Effects     []rawEffect   `yaml:"effects"`
}

type rawEffect struct {
	Type     string           `yaml:"type"`
	Property string           `yaml:"property"`
	Value    yaml.Node        `yaml:"value"`
	Amount   int              `yaml:"amount"`
	Pool     []string         `yaml:"pool"`
	Palette  string           `yaml:"palette"`
	Icon     game.IconElement `yaml:"icon"`
	Text     string           `yaml:"text"`
	Style    string           `yaml:"style"`
	Target   string           `yaml:"target"`
	Index    yaml.Node        `yaml:"index"`
}

type rawCanvas struct {
	WidthMode  game.DimensionMode `yaml:"width_mode"`
	HeightMode game.DimensionMode `yaml:"height_mode"`
	Padding    int                `yaml:"padding"`
	Layout     game.Layout        `yaml:"layout"`
	Shape      game.Shape         `yaml:"shape"`
	FillType   game.FillType      `yaml:"fill_type"`
	Palette    string             `yaml:"palette"`
	FontFamily string             `yaml:"font_family"`
	TextStyles []game.TextStyle   `yaml:"text_styles"`
}

type rawCampaign struct {
	StarterDeck   []string      `yaml:"starter_deck"`
	DefaultCanvas rawCanvas     `yaml:"default_canvas"`
	Tutorial      game.Tutorial `yaml:"tutorial"`
}

func (r rawCard) card() (game.Card, error) {
	c := game.Card{
		ID:          r.ID,
		TemplateID:  r.ID,
		Name:        r.Name,
		Description: r.Description,
		FocusCost:   r.FocusCost,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Exhausts:    r.Exhausts,
	}
	for i, re := range r.Effects {
		eff, err := re.effect()
		if err != nil {
			return game.Card{}, fmt.Errorf("card %s effect %d: %w", r.ID, i, err)
		}
		c.Effects = append(c.Effects, eff)
	}
	return c, nil
}

func (r rawEffect) effect() (game.Effect, error) {
	switch r.Type {
	case "SET_CANVAS_PROP":
		return r.canvasProp()
	case "DRAW_CARDS":
		return game.DrawCards{Amount: r.Amount}, nil
	case "MODIFY_FOCUS":
		return game.ModifyFocus{Amount: r.Amount}, nil
	case "GENERATE_CARD":
		return game.GenerateCard{Pool: r.Pool}, nil
	case "GENERATE_SET_CARDS":
		return game.GenerateSetCards{Pool: r.Pool}, nil
	case "GENERATE_PALETTE_CARD":
		return game.GeneratePaletteCard{Amount: r.Amount}, nil
	case "SET_PALETTE":
		return game.SetPalette{PaletteID: r.Palette}, nil
	case "ADD_ICON":
		return game.AddIcon{Icon: r.Icon}, nil
	case "ADD_TEXT":
		return game.AddText{Text: r.Text, StyleName: r.Style}, nil
	case "ADD_ENCOUNTER_TEXT":
		return game.AddEncounterText{}, nil
	case "ADD_ENCOUNTER_ICON":
		return game.AddEncounterIcon{}, nil
	case "APPLY_COLOR_TO":
		return game.ApplyColorTo{Target: r.Target}, nil
	case "MODIFY_PROPERTY":
		return game.ModifyProperty{Property: r.Property, Amount: r.Amount}, nil
	case "SET_ACTIVE_COLOR_FROM_PALETTE":
		return r.paletteColor()
	case "":
		return nil, fmt.Errorf("missing effect type")
	default:
		return game.UnknownEffect{Type: r.Type}, nil
	}
}

func (r rawEffect) canvasProp() (game.Effect, error) {
	eff := game.SetCanvasProp{Property: r.Property}
	switch r.Property {
	case game.PropActiveTextStyle:
		var ts game.TextStyle
		if err := r.Value.Decode(&ts); err != nil {
			return nil, fmt.Errorf("%s value: %w", r.Property, err)
		}
		eff.Style = &ts
	case game.PropPadding, game.PropBorderRadius:
		if err := r.Value.Decode(&eff.Number); err != nil {
			return nil, fmt.Errorf("%s value: %w", r.Property, err)
		}
	default:
		if r.Value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%s value must be a scalar", r.Property)
		}
		eff.Value = r.Value.Value
	}
	return eff, nil
}

func (r rawEffect) paletteColor() (game.Effect, error) {
	if r.Index.Kind == 0 {
		return game.SetActiveColorFromPalette{}, nil
	}
	if strings.EqualFold(r.Index.Value, "random") {
		return game.SetActiveColorFromPalette{Random: true}, nil
	}
	var i int
	if err := r.Index.Decode(&i); err != nil {
		return nil, fmt.Errorf("palette color index: %w", err)
	}
	return game.SetActiveColorFromPalette{Index: i}, nil
}

func decode(data []byte, name string, into any) error {
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
