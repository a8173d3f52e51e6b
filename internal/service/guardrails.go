package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutricoach/nutricoach-backend/internal/models"
)

// RuleKind identifies which table a guardrail rule came from.
type RuleKind string

const (
	RuleKindConstraint RuleKind = "constraint"
	RuleKindRecipeRule RuleKind = "recipe_rule"
	RuleKindHousehold  RuleKind = "household"
	RuleKindProtocol   RuleKind = "protocol"
)

// RuleRef is the typed reference to a rule's source row. It replaces the
// composite "db:<table>:<id>:<index>" identifier strings the UI used to
// parse apart.
type RuleRef struct {
	Kind RuleKind  `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

func (r RuleRef) String() string {
	return fmt.Sprintf("%s/%s", r.Kind, r.ID)
}

// GuardrailRule is one entry in a household's assembled ruleset.
type GuardrailRule struct {
	Ref         RuleRef `json:"ref"`
	Name        string  `json:"name"`
	Term        string  `json:"term,omitempty"`
	Category    string  `json:"category,omitempty"`
	Action      string  `json:"action"`
	Replacement string  `json:"replacement,omitempty"`
	Priority    int     `json:"priority"`
	Note        string  `json:"note,omitempty"`
}

// RuleWarning is a guardrail rule matched against a specific recipe ingredient.
type RuleWarning struct {
	Rule       GuardrailRule `json:"rule"`
	Ingredient string        `json:"ingredient"`
}

// Household avoid-rules outrank catalog and protocol defaults.
const householdRulePriority = 100

// GuardrailsService assembles prioritized guardrail rulesets from the
// category-constraint, adaptation-rule, protocol-rule and avoid-rule tables.
type GuardrailsService struct {
	db *gorm.DB
}

func NewGuardrailsService(db *gorm.DB) *GuardrailsService {
	return &GuardrailsService{db: db}
}

// AssembleRuleset merges every rule source that applies to the household
// into a single list, sorted by priority descending with a deterministic
// name then ID tie-break.
func (s *GuardrailsService) AssembleRuleset(ctx context.Context, householdID uuid.UUID, dietCategories []string) ([]GuardrailRule, error) {
	var rules []GuardrailRule

	if len(dietCategories) > 0 {
		var constraints []models.DietCategoryConstraint
		if err := s.db.WithContext(ctx).
			Where("diet_category IN ?", dietCategories).
			Find(&constraints).Error; err != nil {
			return nil, fmt.Errorf("failed to load category constraints: %w", err)
		}
		for _, c := range constraints {
			rules = append(rules, GuardrailRule{
				Ref:      RuleRef{Kind: RuleKindConstraint, ID: c.ID},
				Name:     c.Category,
				Category: c.Category,
				Action:   c.Action,
				Priority: c.Priority,
				Note:     c.Note,
			})
		}

		var adaptations []models.RecipeAdaptationRule
		if err := s.db.WithContext(ctx).
			Where("diet_category IN ?", dietCategories).
			Find(&adaptations).Error; err != nil {
			return nil, fmt.Errorf("failed to load adaptation rules: %w", err)
		}
		for _, a := range adaptations {
			rules = append(rules, GuardrailRule{
				Ref:         RuleRef{Kind: RuleKindRecipeRule, ID: a.ID},
				Name:        a.Term,
				Term:        a.Term,
				Action:      a.Action,
				Replacement: a.Replacement,
				Priority:    a.Priority,
			})
		}
	}

	var protocolRules []models.ProtocolRule
	if err := s.db.WithContext(ctx).
		Joins("JOIN household_protocols ON household_protocols.protocol_id = protocol_rules.protocol_id").
		Where("household_protocols.household_id = ?", householdID).
		Find(&protocolRules).Error; err != nil {
		return nil, fmt.Errorf("failed to load protocol rules: %w", err)
	}
	for _, p := range protocolRules {
		rules = append(rules, GuardrailRule{
			Ref:      RuleRef{Kind: RuleKindProtocol, ID: p.ID},
			Name:     p.Term,
			Term:     p.Term,
			Action:   p.Action,
			Priority: p.Priority,
			Note:     p.Note,
		})
	}

	var avoidRules []models.HouseholdAvoidRule
	if err := s.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Find(&avoidRules).Error; err != nil {
		return nil, fmt.Errorf("failed to load avoid rules: %w", err)
	}
	for _, h := range avoidRules {
		rules = append(rules, GuardrailRule{
			Ref:      RuleRef{Kind: RuleKindHousehold, ID: h.ID},
			Name:     h.Term,
			Term:     h.Term,
			Action:   models.RuleActionAvoid,
			Priority: householdRulePriority,
			Note:     h.Reason,
		})
	}

	SortRuleset(rules)
	return rules, nil
}

// SortRuleset orders rules by priority descending; equal priorities fall
// back to name, then ID, so the ordering is stable across assemblies.
func SortRuleset(rules []GuardrailRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority > rules[j].Priority
		}
		ni, nj := strings.ToLower(rules[i].Name), strings.ToLower(rules[j].Name)
		if ni != nj {
			return ni < nj
		}
		return rules[i].Ref.ID.String() < rules[j].Ref.ID.String()
	})
}

// EvaluateRecipe matches a ruleset against a recipe's ingredient lines.
// Term rules match by case-insensitive substring; category rules match an
// ingredient line that names the category. The first (highest-priority)
// match per ingredient wins.
func EvaluateRecipe(rules []GuardrailRule, ingredients []string) []RuleWarning {
	var warnings []RuleWarning
	for _, ing := range ingredients {
		line := strings.ToLower(strings.TrimSpace(ing))
		for _, rule := range rules {
			needle := rule.Term
			if needle == "" {
				needle = rule.Category
			}
			if needle == "" {
				continue
			}
			if strings.Contains(line, strings.ToLower(needle)) {
				warnings = append(warnings, RuleWarning{Rule: rule, Ingredient: ing})
				break
			}
		}
	}
	return warnings
}
