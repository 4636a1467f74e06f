// Package extract turns informal order messages into draft orders by keyword
// and menu-name matching. Results are drafts for staff confirmation.
package extract

import (
	"sort"
	"strings"

	"restaurant-webhooks/internal/lang"
	"restaurant-webhooks/internal/model"

	"github.com/shopspring/decimal"
)

type DraftItem struct {
	ProductID string
	Name      string
	Quantity  int32
	Price     decimal.Decimal
}

type Draft struct {
	Items               []DraftItem
	FulfillmentType     string
	SpecialInstructions string
}

type fulfillmentRule struct {
	fulfillment string
	keywords    []string
}

// checked in order: delivery, then pickup; no hit means dine-in
var fulfillmentRules = []fulfillmentRule{
	{model.FulfillmentDelivery, []string{
		"liefern", "lieferung", "geliefert", "livraison", "livrer", "consegna", "consegnare", "a domicilio",
		"delivery", "deliver", "delivered",
	}},
	{model.FulfillmentPickup, []string{
		"abholen", "abholung", "hole ab", "mitnehmen", "à emporter", "emporter", "retrait", "chercher",
		"asporto", "ritiro", "da portare via", "pick up", "pickup", "takeaway", "take away", "collect",
	}},
}

type Extractor struct {
	fulfillment []fulfillmentRule
}

func NewExtractor() *Extractor {
	e := &Extractor{}
	for _, rule := range fulfillmentRules {
		e.fulfillment = append(e.fulfillment, fulfillmentRule{
			fulfillment: rule.fulfillment,
			keywords:    foldAll(rule.keywords),
		})
	}
	return e
}

// Extract finds menu item names as case and accent insensitive substrings of
// text, so plurals and inflections still match. Every matched item gets
// quantity 1, and a name contained in an already matched longer name is skipped.
func (e *Extractor) Extract(text string, menu []model.MenuItem) Draft {
	folded := strings.Join(lang.Words(lang.Fold(text)), " ")
	padded := " " + folded + " "

	candidates := make([]model.MenuItem, len(menu))
	copy(candidates, menu)
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].Name) > len(candidates[j].Name)
	})

	var (
		items   []DraftItem
		matched []string
	)
	for _, item := range candidates {
		name := strings.Join(lang.Words(lang.Fold(item.Name)), " ")
		if name == "" || !strings.Contains(folded, name) {
			continue
		}
		if coveredBy(name, matched) {
			continue
		}
		matched = append(matched, name)
		items = append(items, DraftItem{
			ProductID: item.ID,
			Name:      item.Name,
			Quantity:  1,
			Price:     item.Price,
		})
	}

	return Draft{
		Items:               items,
		FulfillmentType:     e.fulfillmentType(padded),
		SpecialInstructions: text,
	}
}

func (e *Extractor) fulfillmentType(padded string) string {
	for _, f := range e.fulfillment {
		if containsAny(padded, f.keywords) {
			return f.fulfillment
		}
	}
	return model.FulfillmentDineIn
}

func coveredBy(name string, matched []string) bool {
	for _, m := range matched {
		if strings.Contains(m, name) {
			return true
		}
	}
	return false
}
