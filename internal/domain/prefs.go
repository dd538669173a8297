package domain

import "fmt"

type TastePreference string

const (
	TasteSpicy  TastePreference = "spicy"
	TasteNormal TastePreference = "normal"
)

// UserPreferences is the per-request preference value object. Area is a hard
// filter; Coords only soften distance scoring. Both may be absent.
type UserPreferences struct {
	Area      string
	Coords    *Coords
	Taste     TastePreference
	BudgetMin int
	BudgetMax int
}

// Validate fails fast on preconditions the engine assumes to hold.
func (p UserPreferences) Validate() error {
	if p.Taste != TasteSpicy && p.Taste != TasteNormal {
		return fmt.Errorf("%w: unknown taste_preference %q", ErrInvalidPreferences, string(p.Taste))
	}
	if p.BudgetMin < 0 {
		return fmt.Errorf("%w: budget_min must be >= 0", ErrInvalidPreferences)
	}
	if p.BudgetMin > p.BudgetMax {
		return fmt.Errorf("%w: budget_min %d exceeds budget_max %d", ErrInvalidPreferences, p.BudgetMin, p.BudgetMax)
	}
	return nil
}
