// internal/game/types.go
//
// Core type definitions for the design deck engine.
// Defines:
//   - Phase: top-level state machine position.
//   - Card: a catalog template or a stamped instance in a pile.
//   - Canvas: the design artifact cards mutate.
//   - Player / State: the aggregate threaded through every transition.
//   - Palette / Encounter / Tutorial: read-only content the engine looks up.
//   - Verdict: result of the external grading collaborator.

package game

// Phase is the current position of the turn/phase state machine.
type Phase string

const (
	PhaseHome           Phase = "home"
	PhaseTutorialChoice Phase = "tutorialChoice"
	PhaseSetup          Phase = "setup"
	PhasePlayerTurn     Phase = "playerTurn"
	PhaseResults        Phase = "results"
	PhaseReward         Phase = "reward"
	PhaseRunOver        Phase = "runOver"
)

// Category is the main card category.
type Category string

const (
	CategoryFoundation Category = "Foundation"
	CategoryElement    Category = "Element"
	CategorySkill      Category = "Skill"
)

// Card is either a catalog template (ID == TemplateID) or an instance
// stamped with a fresh ID when generated or dealt.
type Card struct {
	ID          string   `json:"id"`
	TemplateID  string   `json:"templateId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	FocusCost   int      `json:"focusCost"`
	Category    Category `json:"category"`
	Subcategory string   `json:"subcategory"` // UI grouping only
	Effects     []Effect `json:"-"`
	Exhausts    bool     `json:"exhausts"`
	Temporary   bool     `json:"isTemporary"`
}

// DimensionMode is a width/height sizing rule.
type DimensionMode string

const (
	DimensionFluid DimensionMode = "fluid"
	DimensionFixed DimensionMode = "fixed"
	DimensionFit   DimensionMode = "fit"
)

// Layout is the flow direction of the canvas children.
type Layout string

const (
	LayoutBlock  Layout = "block"
	LayoutRow    Layout = "row"
	LayoutColumn Layout = "column"
)

// Shape is the container outline.
type Shape string

const (
	ShapeSquare    Shape = "square"
	ShapeRectangle Shape = "rectangle"
	ShapeRounded   Shape = "rounded"
)

// FillType is how the container background is painted.
type FillType string

const (
	FillNone   FillType = "none"
	FillSolid  FillType = "solid"
	FillOpaque FillType = "opaque"
)

// TextStyle is a named typography preset.
type TextStyle struct {
	Name       string `json:"name" yaml:"name"`
	FontSize   int    `json:"fontSize" yaml:"font_size"`
	FontWeight int    `json:"fontWeight" yaml:"font_weight"`
}

// TextElement is the single text child of the canvas.
type TextElement struct {
	Text      string `json:"text"`
	StyleName string `json:"styleName"`
	Color     string `json:"color"`
}

// IconElement is the single icon child of the canvas.
type IconElement struct {
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
	Size  int    `json:"size" yaml:"size"`
}

// Canvas is the design the player builds.
//
// ActiveColor ("" = none) and ActiveTextStyle (nil = none) are consume-once
// buffs. Text and Icon are replaced wholesale, never edited in place, so a
// Canvas copy never shares mutable state with its source.
type Canvas struct {
	WidthMode    DimensionMode `json:"widthMode"`
	HeightMode   DimensionMode `json:"heightMode"`
	Padding      int           `json:"padding"`
	Layout       Layout        `json:"layout"`
	Shape        Shape         `json:"shape"`
	FillType     FillType      `json:"fillType"`
	BorderRadius int           `json:"borderRadius"`

	ActivePaletteID string   `json:"activePaletteId"`
	PaletteName     string   `json:"paletteName"`
	Colors          []string `json:"colors"`
	ActiveColor     string   `json:"activeColor,omitempty"`
	BackgroundColor string   `json:"backgroundColor,omitempty"`
	StrokeColor     string   `json:"strokeColor,omitempty"`

	FontFamily      string      `json:"fontFamily"`
	TextStyles      []TextStyle `json:"textStyles"`
	ActiveTextStyle *TextStyle  `json:"activeTextStyle,omitempty"`

	Text *TextElement `json:"text,omitempty"`
	Icon *IconElement `json:"icon,omitempty"`
}

// Player owns focus and the four card piles. Every instance the player
// holds is in exactly one pile. Deck is a stack: the top is the last element.
type Player struct {
	ID        string `json:"id"`
	Focus     int    `json:"focus"`
	MaxFocus  int    `json:"maxFocus"`
	Deck      []Card `json:"deck"`
	Hand      []Card `json:"hand"`
	Discard   []Card `json:"discard"`
	Exhausted []Card `json:"exhausted"`
	Canvas    Canvas `json:"canvas"`
}

// Palette is a named color set plus the element cards it unlocks.
type Palette struct {
	ID     string   `json:"id" yaml:"id"`
	Name   string   `json:"name" yaml:"name"`
	Colors []string `json:"colors" yaml:"colors"`
	Cards  []string `json:"cards" yaml:"cards"`
}

// Encounter is one challenge. Feedback is only set on the per-state copy
// after grading.
type Encounter struct {
	ID          string `json:"id" yaml:"id"`
	Prompt      string `json:"promptName" yaml:"prompt"`
	DefaultText string `json:"defaultText" yaml:"default_text"`
	DefaultIcon string `json:"defaultIcon,omitempty" yaml:"default_icon"`
	MaxTurns    int    `json:"maxTurns" yaml:"max_turns"`
	Tutorial    bool   `json:"tutorial,omitempty" yaml:"tutorial"`
	Feedback    string `json:"feedback,omitempty" yaml:"-"`
}

// TutorialStep is the hand-authored deal for one tutorial turn.
type TutorialStep struct {
	Cards   []string `json:"cards" yaml:"cards"`
	Message string   `json:"message" yaml:"message"`
}

// Tutorial scripts the tutorial encounter by turn index.
type Tutorial struct {
	Steps        map[int]TutorialStep `json:"steps" yaml:"steps"`
	UnlockCardID string               `json:"unlockCard" yaml:"unlock_card"`
	Feedback     string               `json:"feedback" yaml:"feedback"`
}

// State is the top-level aggregate. Transitions never modify a State they
// receive; they return a new one.
type State struct {
	Phase            Phase      `json:"phase"`
	TurnsRemaining   int        `json:"turnsRemaining"`
	MaxTurns         int        `json:"maxTurns"`
	CurrentEncounter *Encounter `json:"currentEncounter"`
	EncounterIndex   int        `json:"encounterIndex"`
	RewardCards      []Card     `json:"rewardCards"`
	TutorialMessage  string     `json:"tutorialMessage,omitempty"`
	Player           Player     `json:"player"`
}

// TurnIndex is the 0-based index of the current turn. It is the only
// derivation of the turn counter; tutorial scripting keys off it.
func (s State) TurnIndex() int { return s.MaxTurns - s.TurnsRemaining }

// InTutorial reports whether the current encounter is the scripted tutorial.
func (s State) InTutorial() bool {
	return s.CurrentEncounter != nil && s.CurrentEncounter.Tutorial
}

// Verdict is the grading collaborator's result contract.
type Verdict struct {
	Pass     bool   `json:"pass"`
	Feedback string `json:"feedback"`
}

// Catalog is the read-only content the engine looks up by identifier.
type Catalog interface {
	Card(id string) (Card, bool)
	Cards() []Card
	Palette(id string) (Palette, bool)
	Encounter(index int) (Encounter, bool)
	StarterDeck() []string
	Tutorial() Tutorial
	DefaultCanvas() Canvas
}
