package service

import (
	"context"
	"fmt"
	"strings"

	"roomy/internal/model"
)

// Fixed replies for chat commands
const (
	MemoryResetReply  = "I've cleared everything I remembered about you. Let's start fresh!"
	ChatResetReply    = "Chat cleared. Your saved preferences are still here. What are you looking for?"
	noMemoryReply     = "I don't have any saved preferences for you yet. Tell me your budget, university or preferred area and I'll remember them."
	guestMemoryReply  = "I only remember preferences for signed-in users. Sign in and tell me what you're looking for."
	rememberedPreface = "Here's what I remember about you:"
)

// chatCommand short-circuits a turn when the message contains one of its
// phrases.
type chatCommand struct {
	name    string
	phrases []string
	run     func(s *ChatService, ctx context.Context, turn *chatTurn) (*model.ChatResponse, error)
}

// chatCommands are checked in order; the first match wins.
var chatCommands = []chatCommand{
	{
		name:    "reset_memory",
		phrases: []string{"reset my memory", "reset ai memory"},
		run:     (*ChatService).resetMemory,
	},
	{
		name:    "show_memory",
		phrases: []string{"what do you remember", "what do you know about me"},
		run:     (*ChatService).showMemory,
	},
	{
		name:    "reset_chat",
		phrases: []string{"reset chat", "start over"},
		run:     (*ChatService).resetChat,
	},
}

func matchCommand(message string) (chatCommand, bool) {
	lower := strings.ToLower(message)
	for _, cmd := range chatCommands {
		for _, phrase := range cmd.phrases {
			if strings.Contains(lower, phrase) {
				return cmd, true
			}
		}
	}
	return chatCommand{}, false
}

// resetMemory forgets the user's preferences and deletes the session
func (s *ChatService) resetMemory(ctx context.Context, turn *chatTurn) (*model.ChatResponse, error) {
	if turn.userID != nil {
		if err := s.prefs.ClearPreferences(ctx, *turn.userID); err != nil {
			return nil, fmt.Errorf("failed to reset memory: %w", err)
		}
	}
	if err := s.sessions.DeleteSession(ctx, turn.sessionID); err != nil {
		return nil, fmt.Errorf("failed to reset memory: %w", err)
	}

	return &model.ChatResponse{
		Response:    MemoryResetReply,
		SessionID:   turn.sessionID,
		MemoryReset: true,
	}, nil
}

// showMemory reports the stored preferences without changing anything
func (s *ChatService) showMemory(ctx context.Context, turn *chatTurn) (*model.ChatResponse, error) {
	resp := &model.ChatResponse{SessionID: turn.sessionID}
	if turn.userID == nil {
		resp.Response = guestMemoryReply
		return resp, nil
	}

	prefs, err := s.prefs.GetPreferences(ctx, *turn.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load memory: %w", err)
	}
	if prefs.IsEmpty() {
		resp.Response = noMemoryReply
		return resp, nil
	}

	resp.Response = describePreferences(prefs)
	resp.Memory = prefs
	return resp, nil
}

// resetChat deletes the session; long-term preferences stay
func (s *ChatService) resetChat(ctx context.Context, turn *chatTurn) (*model.ChatResponse, error) {
	if err := s.sessions.DeleteSession(ctx, turn.sessionID); err != nil {
		return nil, fmt.Errorf("failed to reset chat: %w", err)
	}
	return &model.ChatResponse{
		Response:  ChatResetReply,
		SessionID: turn.sessionID,
		ChatReset: true,
	}, nil
}

func describePreferences(p *model.Preferences) string {
	lines := []string{rememberedPreface}
	if p.Budget != nil {
		lines = append(lines, fmt.Sprintf("- Budget: $%d", *p.Budget))
	}
	if p.University != nil {
		lines = append(lines, "- University: "+*p.University)
	}
	if p.PreferredArea != nil {
		lines = append(lines, "- Preferred area: "+*p.PreferredArea)
	}
	if p.PreferredRoomType != nil {
		lines = append(lines, "- Room type: "+*p.PreferredRoomType)
	}
	if p.PreferredAmenity != nil {
		lines = append(lines, "- Must have: "+*p.PreferredAmenity)
	}
	return strings.Join(lines, "\n")
}
