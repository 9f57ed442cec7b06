package business

import (
	"encoding/json"
	"fmt"
	"strings"

	"whatsapp-sales-be/pkg/lang"
)

// Product is one catalog entry.
type Product struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Description string `json:"description"`
}

// Profile is the read-only catalog/FAQ record for one business. Loaded once,
// shared by all sessions, never mutated.
type Profile struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Products     []Product         `json:"products"`
	FAQ          map[string]string `json:"faq"`
	WorkingHours string            `json:"working_hours"`
}

// Provider renders the model-facing system prompt for a business. The
// business id is part of the contract so a multi-business catalog can be
// added without changing callers.
type Provider interface {
	Render(businessID, languageCode string) string
	Profile(businessID string) *Profile
}

// StaticProvider serves a fixed demo catalog.
type StaticProvider struct {
	profiles map[string]*Profile
	fallback *Profile
}

var _ Provider = &StaticProvider{}

func NewStaticProvider() *StaticProvider {
	demo := &Profile{
		ID:   "demo",
		Name: "Demo Store",
		Products: []Product{
			{ID: 1, Name: "Product A", Price: 100, Description: "High quality product A"},
			{ID: 2, Name: "Product B", Price: 200, Description: "Premium product B"},
		},
		FAQ: map[string]string{
			"shipping": "We ship within 24 hours across the country",
			"payment":  "We accept mobile money, bank transfer, and cash on delivery",
			"returns":  "30-day return policy on all items",
		},
		WorkingHours: "Monday-Saturday, 9AM-6PM",
	}

	return &StaticProvider{
		profiles: map[string]*Profile{demo.ID: demo},
		fallback: demo,
	}
}

// Profile returns the catalog record for a business id, falling back to the
// demo profile for unknown ids.
func (p *StaticProvider) Profile(businessID string) *Profile {
	if profile, ok := p.profiles[businessID]; ok {
		return profile
	}
	return p.fallback
}

// Render formats the system prompt: business name, full catalog, full FAQ,
// working hours and a directive to respond in the display language. Pure
// function of its inputs.
func (p *StaticProvider) Render(businessID, languageCode string) string {
	profile := p.Profile(businessID)

	// Marshal never fails on these static types.
	products, _ := json.Marshal(profile.Products)
	faq, _ := json.Marshal(profile.FAQ)

	var prompt strings.Builder
	prompt.WriteString(fmt.Sprintf("You are a helpful sales assistant for %s.\n", profile.Name))
	prompt.WriteString(fmt.Sprintf("Respond in %s.\n", lang.DisplayName(languageCode)))
	prompt.WriteString(fmt.Sprintf("Products: %s\n", products))
	prompt.WriteString(fmt.Sprintf("FAQ: %s\n", faq))
	prompt.WriteString(fmt.Sprintf("Working Hours: %s\n", profile.WorkingHours))
	prompt.WriteString("Be friendly, concise, and helpful. Keep it short for WhatsApp.")

	return prompt.String()
}
