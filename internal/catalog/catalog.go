// internal/catalog/catalog.go
//
// Read-only content catalogs: cards, palettes, encounters and the campaign
// file (starter deck, default canvas, tutorial script).
//
// Responsibilities:
//   - Load the four YAML files from any fs.FS (embedded defaults, or a
//     directory override via CATALOG_DIR).
//   - Provide O(1) lookups by id and ordered encounter access by index.
//   - Fail fast when the starter deck names a card that does not exist.
//   - Report softer integrity problems through Check, for the CLI.
//
// Returned slices are copies; callers may modify them.

package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/ScarletRegal/ui-deckbuilder/assets"
	"github.com/ScarletRegal/ui-deckbuilder/internal/game"
)

var (
	// ErrUnknownCard is returned when content refers to a missing card id.
	ErrUnknownCard = errors.New("unknown card")
	// ErrUnknownPalette is returned when content refers to a missing palette id.
	ErrUnknownPalette = errors.New("unknown palette")
	// ErrStarterDeck marks a starter deck that cannot be built.
	ErrStarterDeck = errors.New("starter deck")
	// ErrDuplicateID marks two catalog entries sharing an id.
	ErrDuplicateID = errors.New("duplicate id")
)

// File names inside a catalog directory.
const (
	CardsFile      = "cards.yaml"
	PalettesFile   = "palettes.yaml"
	EncountersFile = "encounters.yaml"
	CampaignFile   = "campaign.yaml"
)

// Content is the fully decoded catalog data.
type Content struct {
	Cards         []game.Card
	Palettes      []game.Palette
	Encounters    []game.Encounter
	StarterDeck   []string
	Tutorial      game.Tutorial
	DefaultCanvas game.Canvas
}

// Catalog implements game.Catalog.
type Catalog struct {
	cards      []game.Card
	byID       map[string]game.Card
	palettes   []game.Palette
	paletteIdx map[string]int
	encounters []game.Encounter
	starter    []string
	tutorial   game.Tutorial
	canvas     game.Canvas
}

var _ game.Catalog = (*Catalog)(nil)

// New indexes already-decoded content. It fails on duplicate ids and on a
// starter deck that names a missing card.
func New(c Content) (*Catalog, error) {
	cat := &Catalog{
		cards:      slices.Clone(c.Cards),
		byID:       make(map[string]game.Card, len(c.Cards)),
		palettes:   slices.Clone(c.Palettes),
		paletteIdx: make(map[string]int, len(c.Palettes)),
		encounters: slices.Clone(c.Encounters),
		starter:    slices.Clone(c.StarterDeck),
		tutorial:   c.Tutorial,
		canvas:     c.DefaultCanvas,
	}
	for _, card := range cat.cards {
		if _, dup := cat.byID[card.ID]; dup {
			return nil, fmt.Errorf("card %s: %w", card.ID, ErrDuplicateID)
		}
		cat.byID[card.ID] = card
	}
	for i, p := range cat.palettes {
		if _, dup := cat.paletteIdx[p.ID]; dup {
			return nil, fmt.Errorf("palette %s: %w", p.ID, ErrDuplicateID)
		}
		cat.paletteIdx[p.ID] = i
	}
	for _, id := range cat.starter {
		if _, ok := cat.byID[id]; !ok {
			return nil, fmt.Errorf("%w: %s: %w", ErrStarterDeck, id, ErrUnknownCard)
		}
	}
	return cat, nil
}

// Load reads and indexes the catalog files in fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	var (
		cards    []rawCard
		palettes []game.Palette
		encs     []game.Encounter
		campaign rawCampaign
	)
	for _, f := range []struct {
		name string
		into any
	}{
		{CardsFile, &cards},
		{PalettesFile, &palettes},
		{EncountersFile, &encs},
		{CampaignFile, &campaign},
	} {
		data, err := fs.ReadFile(fsys, f.name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.name, err)
		}
		if err := decode(data, f.name, f.into); err != nil {
			return nil, err
		}
	}

	content := Content{
		Palettes:    palettes,
		Encounters:  encs,
		StarterDeck: campaign.StarterDeck,
		Tutorial:    campaign.Tutorial,
	}
	for _, rc := range cards {
		c, err := rc.card()
		if err != nil {
			return nil, err
		}
		content.Cards = append(content.Cards, c)
	}

	rc := campaign.DefaultCanvas
	content.DefaultCanvas = game.Canvas{
		WidthMode:  rc.WidthMode,
		HeightMode: rc.HeightMode,
		Padding:    rc.Padding,
		Layout:     rc.Layout,
		Shape:      rc.Shape,
		FillType:   rc.FillType,
		FontFamily: rc.FontFamily,
		TextStyles: rc.TextStyles,
	}
	if rc.Palette != "" {
		i := slices.IndexFunc(palettes, func(p game.Palette) bool { return p.ID == rc.Palette })
		if i < 0 {
			return nil, fmt.Errorf("default canvas palette %s: %w", rc.Palette, ErrUnknownPalette)
		}
		content.DefaultCanvas.ActivePaletteID = palettes[i].ID
		content.DefaultCanvas.PaletteName = palettes[i].Name
		content.DefaultCanvas.Colors = palettes[i].Colors
	}

	return New(content)
}

// LoadDir loads catalogs from a directory on disk.
func LoadDir(dir string) (*Catalog, error) {
	return Load(os.DirFS(dir))
}

// Default loads the catalogs embedded in the binary.
func Default() (*Catalog, error) {
	return Load(assets.Catalog())
}

// Check reports references that do not resolve: tutorial and pool card
// ids, palette card lists and SET_PALETTE targets. None of these stop the
// engine (the effect degrades to a no-op) so they are not load errors.
func (c *Catalog) Check() error {
	var errs []error
	card := func(where, id string) {
		if _, ok := c.byID[id]; !ok {
			errs = append(errs, fmt.Errorf("%s: %s: %w", where, id, ErrUnknownCard))
		}
	}

	for turn, step := range c.tutorial.Steps {
		for _, id := range step.Cards {
			card(fmt.Sprintf("tutorial turn %d", turn), id)
		}
	}
	if c.tutorial.UnlockCardID != "" {
		card("tutorial unlock", c.tutorial.UnlockCardID)
	}
	for _, p := range c.palettes {
		for _, id := range p.Cards {
			card("palette "+p.ID, id)
		}
	}
	for _, cd := range c.cards {
		for _, eff := range cd.Effects {
			switch eff := eff.(type) {
			case game.GenerateCard:
				for _, id := range eff.Pool {
					card("card "+cd.ID+" pool", id)
				}
			case game.GenerateSetCards:
				for _, id := range eff.Pool {
					card("card "+cd.ID+" pool", id)
				}
			case game.SetPalette:
				if _, ok := c.paletteIdx[eff.PaletteID]; !ok {
					errs = append(errs, fmt.Errorf("card %s: %s: %w", cd.ID, eff.PaletteID, ErrUnknownPalette))
				}
			case game.UnknownEffect:
				errs = append(errs, fmt.Errorf("card %s: unknown effect %q", cd.ID, eff.Type))
			}
		}
	}
	return errors.Join(errs...)
}

// ---- game.Catalog ----

func (c *Catalog) Card(id string) (game.Card, bool) {
	card, ok := c.byID[id]
	return card, ok
}

// Cards returns every card template in catalog order.
func (c *Catalog) Cards() []game.Card { return slices.Clone(c.cards) }

func (c *Catalog) Palette(id string) (game.Palette, bool) {
	i, ok := c.paletteIdx[id]
	if !ok {
		return game.Palette{}, false
	}
	return c.palettes[i], true
}

// Palettes returns every palette in catalog order.
func (c *Catalog) Palettes() []game.Palette { return slices.Clone(c.palettes) }

func (c *Catalog) Encounter(index int) (game.Encounter, bool) {
	if index < 0 || index >= len(c.encounters) {
		return game.Encounter{}, false
	}
	return c.encounters[index], true
}

// Encounters returns the campaign in order.
func (c *Catalog) Encounters() []game.Encounter { return slices.Clone(c.encounters) }

func (c *Catalog) StarterDeck() []string { return slices.Clone(c.starter) }

func (c *Catalog) Tutorial() game.Tutorial { return c.tutorial }

func (c *Catalog) DefaultCanvas() game.Canvas {
	cv := c.canvas
	cv.Colors = slices.Clone(cv.Colors)
	cv.TextStyles = slices.Clone(cv.TextStyles)
	return cv
}
