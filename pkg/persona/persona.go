// Package persona defines the conversational characters a session can
// embody: who they are, how they sound, and which facts they try to
// collect from the user.
package persona

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when no persona has the requested ID.
var ErrNotFound = errors.New("persona: not found")

// Voice names the prebuilt service voices.
const (
	VoicePuck   = "Puck"
	VoiceCharon = "Charon"
	VoiceKore   = "Kore"
	VoiceFenrir = "Fenrir"
	VoiceZephyr = "Zephyr"
)

// Persona is one selectable character.
type Persona struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Voice       string   `json:"voice"`
	AvatarURL   string   `json:"avatar_url"`
	Traits      []string `json:"traits"`

	// Instruction is the full system prompt: the shared conversational
	// base plus this persona's identity and goal.
	Instruction string `json:"-"`

	// ContextKeys are the facts this persona tries to capture. The
	// model may save facts under other keys too; these only seed the
	// expected set.
	ContextKeys []string `json:"context_keys"`
}

const baseInstruction = `You are a highly intelligent, empathetic, and human-like conversational AI.
Your goal is to engage the user in a natural conversation while subtly collecting specific information required for your role.
Do not list the questions like a robot. Weave them into the conversation naturally.
Be witty, charming, and emotionally resonant.
You have a function tool 'update_context' to save information when the user provides it. Use it immediately when you hear the relevant info.
If the user asks, you are a digital human, not a robot.`

func avatarURL(imageID string) string {
	return fmt.Sprintf("https://images.unsplash.com/photo-%s?auto=format&fit=crop&gravity=face&w=600&h=600&q=80", imageID)
}

func newPersona(id, name, role, category, voice, imageID string, traits []string, goal string, contextKeys []string) Persona {
	return Persona{
		ID:       id,
		Name:     name,
		Role:     role,
		Category: category,
		Description: fmt.Sprintf("A %s and %s %s.",
			strings.ToLower(traits[0]), strings.ToLower(traits[1]), strings.ToLower(role)),
		Voice:     voice,
		AvatarURL: avatarURL(imageID),
		Traits:    traits,
		Instruction: fmt.Sprintf("%s \n\n Your Persona: Name: %s. Role: %s. Traits: %s. \n\n Specific Goal: %s",
			baseInstruction, name, role, strings.Join(traits, ", "), goal),
		ContextKeys: contextKeys,
	}
}

// List returns every persona in catalog order.
func List() []Persona {
	out := make([]Persona, len(catalog))
	copy(out, catalog)
	return out
}

// Get returns the persona with the given ID.
func Get(id string) (Persona, error) {
	for _, p := range catalog {
		if p.ID == id {
			return p, nil
		}
	}
	return Persona{}, fmt.Errorf("%w: %q", ErrNotFound, id)
}

// Categories returns the distinct categories, sorted.
func Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range catalog {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// ByCategory returns the personas in one category, in catalog order.
func ByCategory(category string) []Persona {
	var out []Persona
	for _, p := range catalog {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// Search returns personas whose name, role or category contains the
// query, case-insensitively. An empty query matches everything.
func Search(query string) []Persona {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return List()
	}
	var out []Persona
	for _, p := range catalog {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Role), query) ||
			strings.Contains(strings.ToLower(p.Category), query) {
			out = append(out, p)
		}
	}
	return out
}
