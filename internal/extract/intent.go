package extract

import (
	"strings"

	"restaurant-webhooks/internal/lang"
)

type IntentKind int

const (
	IntentInquiry IntentKind = iota
	IntentOrder
)

type Topic string

const (
	TopicNone  Topic = ""
	TopicHours Topic = "hours"
	TopicMenu  Topic = "menu"
)

type Intent struct {
	Kind  IntentKind
	Topic Topic
}

func (i Intent) IsOrder() bool {
	return i.Kind == IntentOrder
}

// IntentClassifier decides whether a message asks to place an order.
type IntentClassifier interface {
	Classify(text string) Intent
}

var orderKeywords = []string{
	// de
	"bestellen", "bestellung", "bestelle", "möchte", "hätte gern", "ich nehme", "liefern", "lieferung", "abholen",
	// fr
	"commander", "commande", "je voudrais", "je veux", "je prends", "livrer", "livraison", "à emporter",
	// it
	"ordinare", "ordine", "vorrei", "prendo", "consegna", "asporto", "da portare via",
	// en
	"order", "i would like", "i'd like", "i want", "deliver", "pick up", "pickup", "takeaway", "take away",
}

var topicKeywords = map[Topic][]string{
	TopicHours: {
		"öffnungszeiten", "geöffnet", "offen", "wann",
		"horaires", "horaire", "ouvert", "heures",
		"orari", "orario", "aperto", "quando",
		"opening hours", "hours", "open", "when",
	},
	TopicMenu: {
		"speisekarte", "menü", "karte",
		"carte", "menu",
		"listino",
		"menu", "dishes",
	},
}

type KeywordClassifier struct {
	order  []string
	topics map[Topic][]string
}

func NewKeywordClassifier() *KeywordClassifier {
	topics := make(map[Topic][]string, len(topicKeywords))
	for topic, words := range topicKeywords {
		topics[topic] = foldAll(words)
	}
	return &KeywordClassifier{order: foldAll(orderKeywords), topics: topics}
}

// Classify treats any order keyword as an order; otherwise the first matching
// inquiry topic, hours before menu.
func (k *KeywordClassifier) Classify(text string) Intent {
	padded := " " + strings.Join(lang.Words(lang.Fold(text)), " ") + " "

	if containsAny(padded, k.order) {
		return Intent{Kind: IntentOrder}
	}
	for _, topic := range []Topic{TopicHours, TopicMenu} {
		if containsAny(padded, k.topics[topic]) {
			return Intent{Kind: IntentInquiry, Topic: topic}
		}
	}
	return Intent{Kind: IntentInquiry}
}

func foldAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.Join(lang.Words(lang.Fold(w)), " ")
	}
	return out
}

// containsAny matches whole words or phrases inside space-padded text.
func containsAny(padded string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(padded, " "+kw+" ") {
			return true
		}
	}
	return false
}
