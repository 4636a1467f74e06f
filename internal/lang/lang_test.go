package lang

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Language
		ok   bool
	}{
		{"fr-CH", French, true},
		{"de_CH", German, true},
		{"it", Italian, true},
		{"en-GB", English, true},
		{"es", "", false},
		{"", "", false},
		{"not a tag", "", false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "mochte", Fold("Möchte"))
	assert.Equal(t, "a emporter", Fold("À EMPORTER"))
	assert.Equal(t, "cafe creme", Fold("Café Crème"))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+41791234567", NormalizePhone("whatsapp:+41 79 123 45 67"))
	assert.Equal(t, "+41221234567", NormalizePhone("0041 22 123 45 67"))
	assert.Equal(t, "+41445550000", NormalizePhone("+41 (44) 555-00-00"))
}

var defaultPrefixes = map[string]string{
	"+4122": "fr", "+4121": "fr", "+4191": "it", "+41": "de", "+1": "en", "+4199": "xx",
}

func TestDetectCallerGenevaPrefixIsFrench(t *testing.T) {
	d := NewDetector(nil, defaultPrefixes, German)

	assert.Equal(t, French, d.DetectCaller(context.Background(), Caller{Phone: "+41 22 310 11 11"}))
	assert.Equal(t, French, d.DetectCaller(context.Background(), Caller{Phone: "+41213101111"}))
	assert.Equal(t, Italian, d.DetectCaller(context.Background(), Caller{Phone: "+41919999999"}))
	assert.Equal(t, German, d.DetectCaller(context.Background(), Caller{Phone: "+41443101111"}))
	assert.Equal(t, German, d.DetectCaller(context.Background(), Caller{Phone: "+33155555555"}))
}

func TestDetectCallerPreferenceWins(t *testing.T) {
	prefs := PreferenceFunc(func(_ context.Context, tenantID, phone string) (string, error) {
		if tenantID == "t1" && phone == "+41221234567" {
			return "it-CH", nil
		}
		return "", nil
	})
	d := NewDetector(prefs, defaultPrefixes, German)

	assert.Equal(t, Italian, d.DetectCaller(context.Background(), Caller{Phone: "+41221234567", TenantID: "t1"}))
	assert.Equal(t, French, d.DetectCaller(context.Background(), Caller{Phone: "+41229999999", TenantID: "t1"}))
}

func TestDetectCallerPreferenceErrorFallsThrough(t *testing.T) {
	prefs := PreferenceFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("db down")
	})
	d := NewDetector(prefs, defaultPrefixes, English)

	assert.Equal(t, French, d.DetectCaller(context.Background(), Caller{Phone: "+41221234567", TenantID: "t1"}))
	assert.Equal(t, English, d.DetectCaller(context.Background(), Caller{Phone: "+8612345", TenantID: "t1"}))
}

func TestDetectText(t *testing.T) {
	k := NewKeywordDetector()

	tests := []struct {
		text string
		want Language
	}{
		{"Ich möchte bitte zwei Pizza Margherita zum Abholen", German},
		{"Bonjour, je voudrais une pizza avec livraison s'il vous plaît", French},
		{"Buongiorno, vorrei una pizza per favore", Italian},
		{"Hello, I would like two pizzas for pick up please", English},
	}
	for _, tt := range tests {
		got, ok := k.DetectText(tt.text)
		assert.True(t, ok, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}

	_, ok := k.DetectText("Margherita")
	assert.False(t, ok)
}
