package service

import (
	"fmt"
	"strings"

	"roomy/internal/model"
)

const systemPrompt = `You are Roomy, a friendly housing assistant for university students looking for dorms and roommates.
Answer in a few short sentences. Only recommend dorms from the list below and never invent listings or prices.
If no dorm matches, say so and suggest relaxing one filter.`

// buildPrompt assembles the system prompt, the stored history and the new
// message.
func buildPrompt(turn *chatTurn) []ChatMessage {
	var sys strings.Builder
	sys.WriteString(systemPrompt)

	if !turn.filters.IsEmpty() {
		fmt.Fprintf(&sys, "\n\nWhat the student is looking for: %s.", describeFilters(turn.filters))
	}

	if len(turn.suggestions) > 0 {
		sys.WriteString("\n\nMatching dorms:")
		for i, sc := range turn.suggestions {
			fmt.Fprintf(&sys, "\n%d. %s", i+1, describeDorm(sc))
		}
	} else {
		sys.WriteString("\n\nMatching dorms: none found.")
	}

	messages := make([]ChatMessage, 0, len(turn.session.History)+2)
	messages = append(messages, ChatMessage{Role: "system", Content: sys.String()})
	for _, h := range turn.session.History {
		messages = append(messages, ChatMessage{Role: h.Role, Content: h.Content})
	}
	messages = append(messages, ChatMessage{Role: model.RoleUser, Content: turn.message})
	return messages
}

// localReply answers from the suggestions alone, used when no model is
// configured.
func localReply(filters model.ChatFilters, suggestions []model.ScoredCandidate) string {
	if len(suggestions) == 0 {
		if filters.IsEmpty() {
			return "Tell me your budget, university or preferred area and I'll suggest dorms that fit."
		}
		return fmt.Sprintf("I couldn't find dorms %s yet. Try raising your budget or changing the area.", describeFilters(filters))
	}

	var b strings.Builder
	if filters.IsEmpty() {
		b.WriteString("Here are some dorms you might like:")
	} else {
		fmt.Fprintf(&b, "Here are the best dorms %s:", describeFilters(filters))
	}
	for i, sc := range suggestions {
		fmt.Fprintf(&b, "\n%d. %s", i+1, describeDorm(sc))
	}
	return b.String()
}

// describeFilters renders filters as a phrase, e.g. "under $450 near AUB with wifi"
func describeFilters(f model.ChatFilters) string {
	var parts []string
	if f.RoomType != nil {
		parts = append(parts, "for a "+strings.ToLower(*f.RoomType)+" room")
	}
	if f.Budget != nil {
		parts = append(parts, fmt.Sprintf("under $%d", *f.Budget))
	}
	if f.University != nil {
		parts = append(parts, "near "+*f.University)
	}
	if f.Area != nil {
		parts = append(parts, "in "+*f.Area)
	}
	if f.Amenity != nil {
		parts = append(parts, "with "+*f.Amenity)
	}
	if len(parts) == 0 {
		return "with no filters"
	}
	return strings.Join(parts, " ")
}

func describeDorm(sc model.ScoredCandidate) string {
	name := "Unnamed dorm"
	if sc.Name != nil && *sc.Name != "" {
		name = *sc.Name
	}

	var details []string
	if sc.Budget != nil {
		details = append(details, fmt.Sprintf("$%.0f/month", *sc.Budget))
	}
	if sc.Area != nil {
		details = append(details, *sc.Area)
	}
	if sc.University != nil {
		details = append(details, "near "+*sc.University)
	}

	out := name
	if len(details) > 0 {
		out += " (" + strings.Join(details, ", ") + ")"
	}
	out += fmt.Sprintf(" - match %d%%", sc.Score)
	if len(sc.Reasons) > 0 {
		out += ": " + strings.Join(sc.Reasons, ", ")
	}
	return out
}
