// Package onboarding is the three-step first-run flow: pick platforms,
// confirm their monthly costs, choose content preferences.
//
// A Wizard holds the in-memory draft. Nothing is persisted or sent until
// Committer.Commit runs at the end of step 3.
package onboarding

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Step is the current wizard step.
type Step int

const (
	StepPlatforms   Step = 1
	StepCosts       Step = 2
	StepPreferences Step = 3
)

func (s Step) String() string {
	switch s {
	case StepPlatforms:
		return "Platforms"
	case StepCosts:
		return "Costs"
	case StepPreferences:
		return "Preferences"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// ErrWrongStep is returned when an operation is not valid on the current step.
var ErrWrongStep = errors.New("operation not valid on this step")

// ErrNothingSelected is returned by Continue with no platform selected.
var ErrNothingSelected = errors.New("select at least one platform or skip")

// Preferences is persisted as JSON under preferences:<email>.
type Preferences struct {
	Genres      []string    `json:"genres"`
	ContentType ContentType `json:"contentType"`
}

// Draft is the accumulated wizard output.
type Draft struct {
	Platforms   []CatalogEntry
	Costs       map[string]float64
	Preferences Preferences
}

// Total returns the sum of the draft's monthly costs.
func (d Draft) Total() float64 {
	var total float64
	for _, p := range d.Platforms {
		total += d.Costs[p.Name]
	}
	return total
}

// Wizard is the onboarding state machine. It is not safe for concurrent use.
type Wizard struct {
	step Step

	// selected is the step 1 selection; it survives going back.
	selected map[string]bool
	// platforms is the selection committed by the last Continue.
	platforms []CatalogEntry
	costText  map[string]string

	contentType ContentType
	genres      map[string]bool
}

// NewWizard starts at step 1 with nothing selected and content type "both".
func NewWizard() *Wizard {
	return &Wizard{
		step:        StepPlatforms,
		selected:    make(map[string]bool),
		costText:    make(map[string]string),
		contentType: ContentBoth,
		genres:      make(map[string]bool),
	}
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	return w.step
}

// Toggle flips the selection of a catalog platform.
func (w *Wizard) Toggle(name string) error {
	if w.step != StepPlatforms {
		return ErrWrongStep
	}
	if _, ok := Lookup(name); !ok {
		return fmt.Errorf("unknown platform %q", name)
	}
	w.selected[name] = !w.selected[name]
	if !w.selected[name] {
		delete(w.selected, name)
	}
	return nil
}

// IsSelected reports whether name is selected in step 1.
func (w *Wizard) IsSelected(name string) bool {
	return w.selected[name]
}

// SelectedCount returns the number of platforms selected in step 1.
func (w *Wizard) SelectedCount() int {
	return len(w.selected)
}

// CanContinue reports whether Continue is enabled.
func (w *Wizard) CanContinue() bool {
	return w.step == StepPlatforms && len(w.selected) > 0
}

// Continue commits the step 1 selection and moves to step 2. Platforms kept
// from an earlier pass keep their edited cost text; newly added ones start
// at their suggested price.
func (w *Wizard) Continue() error {
	if w.step != StepPlatforms {
		return ErrWrongStep
	}
	if len(w.selected) == 0 {
		return ErrNothingSelected
	}
	w.commitSelection()
	return nil
}

// Skip continues to step 2 with no platforms.
func (w *Wizard) Skip() error {
	if w.step != StepPlatforms {
		return ErrWrongStep
	}
	w.selected = make(map[string]bool)
	w.commitSelection()
	return nil
}

func (w *Wizard) commitSelection() {
	w.platforms = nil
	text := make(map[string]string, len(w.selected))
	for _, e := range Catalog {
		if !w.selected[e.Name] {
			continue
		}
		w.platforms = append(w.platforms, e)
		if prev, ok := w.costText[e.Name]; ok {
			text[e.Name] = prev
		} else {
			text[e.Name] = formatCost(e.SuggestedPrice)
		}
	}
	w.costText = text
	w.step = StepCosts
}

// Platforms returns the platforms carried into step 2, in catalog order.
func (w *Wizard) Platforms() []CatalogEntry {
	return append([]CatalogEntry(nil), w.platforms...)
}

// SetCostText stores the raw text typed for a platform's cost.
func (w *Wizard) SetCostText(name, text string) error {
	if w.step != StepCosts {
		return ErrWrongStep
	}
	if _, ok := w.costText[name]; !ok {
		return fmt.Errorf("platform %q is not selected", name)
	}
	w.costText[name] = text
	return nil
}

// CostText returns the raw cost text of a platform.
func (w *Wizard) CostText(name string) string {
	return w.costText[name]
}

// Cost parses a platform's cost text. Empty or non-numeric text counts as 0.
func (w *Wizard) Cost(name string) float64 {
	return ParseCost(w.costText[name])
}

// Total returns the live monthly total of step 2.
func (w *Wizard) Total() float64 {
	var total float64
	for _, p := range w.platforms {
		total += w.Cost(p.Name)
	}
	return total
}

// ContinueCosts moves from step 2 to step 3.
func (w *Wizard) ContinueCosts() error {
	if w.step != StepCosts {
		return ErrWrongStep
	}
	w.step = StepPreferences
	return nil
}

// Back returns to the previous step. The step 1 selection and the step 2
// cost text are kept.
func (w *Wizard) Back() error {
	switch w.step {
	case StepCosts:
		w.step = StepPlatforms
	case StepPreferences:
		w.step = StepCosts
	default:
		return ErrWrongStep
	}
	return nil
}

// ContentType returns the selected content type.
func (w *Wizard) ContentType() ContentType {
	return w.contentType
}

// SetContentType selects exactly one content type.
func (w *Wizard) SetContentType(c ContentType) error {
	if w.step != StepPreferences {
		return ErrWrongStep
	}
	if !isContentType(c) {
		return fmt.Errorf("unknown content type %q", c)
	}
	w.contentType = c
	return nil
}

// ToggleGenre flips a genre tag.
func (w *Wizard) ToggleGenre(g string) error {
	if w.step != StepPreferences {
		return ErrWrongStep
	}
	if !isGenre(g) {
		return fmt.Errorf("unknown genre %q", g)
	}
	if w.genres[g] {
		delete(w.genres, g)
	} else {
		w.genres[g] = true
	}
	return nil
}

// HasGenre reports whether g is selected.
func (w *Wizard) HasGenre(g string) bool {
	return w.genres[g]
}

// Preferences returns the step 3 choices with genres in display order.
func (w *Wizard) Preferences() Preferences {
	genres := []string{}
	for _, g := range Genres {
		if w.genres[g] {
			genres = append(genres, g)
		}
	}
	return Preferences{Genres: genres, ContentType: w.contentType}
}

// Draft snapshots the wizard's accumulated output.
func (w *Wizard) Draft() Draft {
	costs := make(map[string]float64, len(w.platforms))
	for _, p := range w.platforms {
		costs[p.Name] = w.Cost(p.Name)
	}
	return Draft{
		Platforms:   w.Platforms(),
		Costs:       costs,
		Preferences: w.Preferences(),
	}
}

// ParseCost parses a monthly cost. Empty, non-numeric or negative input
// counts as 0.
func ParseCost(text string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "$")), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func formatCost(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
