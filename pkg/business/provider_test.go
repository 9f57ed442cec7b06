package business

import (
	"strings"
	"testing"
)

func TestRenderContainsCatalog(t *testing.T) {
	provider := NewStaticProvider()

	prompt := provider.Render("demo", "sw")

	for _, want := range []string{
		"You are a helpful sales assistant for Demo Store.",
		"Respond in Swahili.",
		`"name":"Product A"`,
		`"price":200`,
		`"shipping":"We ship within 24 hours across the country"`,
		"Working Hours: Monday-Saturday, 9AM-6PM",
		"Keep it short for WhatsApp.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Render output missing %q\nprompt:\n%s", want, prompt)
		}
	}
}

func TestRenderUnknownLanguageFallsBackToEnglish(t *testing.T) {
	provider := NewStaticProvider()

	prompt := provider.Render("demo", "xx")
	if !strings.Contains(prompt, "Respond in English.") {
		t.Errorf("Render with unknown language should direct English, got:\n%s", prompt)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	provider := NewStaticProvider()

	first := provider.Render("demo", "ar")
	second := provider.Render("demo", "ar")
	if first != second {
		t.Error("Render is not deterministic for identical inputs")
	}
}

func TestUnknownBusinessFallsBackToDemoProfile(t *testing.T) {
	provider := NewStaticProvider()

	if got, want := provider.Render("someone-else", "en"), provider.Render("demo", "en"); got != want {
		t.Error("unknown business id should render the fallback profile")
	}
	if provider.Profile("someone-else").Name != "Demo Store" {
		t.Error("unknown business id should resolve the fallback profile")
	}
}
