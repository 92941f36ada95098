package models

import (
	"time"
)

// Property is a managed real-estate asset that COI records reference.
// Name, Label and Value are aliases of one display string.
type Property struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Label     string    `json:"label"`
	Value     string    `json:"value"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zipCode"`
	CreatedAt time.Time `json:"createdAt"`
}

// Normalize fills any empty alias from the others.
func (p *Property) Normalize() {
	display := firstNonEmpty(p.Name, p.Label, p.Value)
	if p.Name == "" {
		p.Name = display
	}
	if p.Label == "" {
		p.Label = display
	}
	if p.Value == "" {
		p.Value = display
	}
}

// DisplayName is the canonical display string.
func (p *Property) DisplayName() string {
	return firstNonEmpty(p.Value, p.Name, p.Label)
}

// MatchesName reports whether ref equals any of the display aliases.
func (p *Property) MatchesName(ref string) bool {
	return ref != "" && (p.Value == ref || p.Name == ref || p.Label == ref)
}

// Matches reports whether ref is this property's id or one of its aliases.
func (p *Property) Matches(ref string) bool {
	return ref != "" && (p.ID == ref || p.MatchesName(ref))
}

func (p *Property) Clone() *Property {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

func CloneProperties(in []*Property) []*Property {
	out := make([]*Property, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

// FindProperty matches ref by id before falling back to the display aliases.
func FindProperty(props []*Property, ref string) *Property {
	if ref == "" {
		return nil
	}
	for _, p := range props {
		if p.ID == ref {
			return p
		}
	}
	for _, p := range props {
		if p.MatchesName(ref) {
			return p
		}
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
