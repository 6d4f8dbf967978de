package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"roomy/internal/model"
	"roomy/internal/repository"
)

// SessionStore persists chat sessions keyed by session id
type SessionStore interface {
	GetOrCreateSession(ctx context.Context, sessionID string, userID *string) (*model.ChatSession, error)
	UpdateSession(ctx context.Context, session *model.ChatSession) error
	DeleteSession(ctx context.Context, sessionID string) error
}

// PreferenceStore persists long-term preferences of signed-in users
type PreferenceStore interface {
	GetPreferences(ctx context.Context, userID string) (*model.Preferences, error)
	SaveLearnedPreferences(ctx context.Context, userID string, learned model.LearnedPreferences) error
	ClearPreferences(ctx context.Context, userID string) error
}

// DormCatalog lists dorm listings
type DormCatalog interface {
	ListDorms(ctx context.Context, q model.DormQuery) ([]model.Dorm, error)
}

// QueryEmbedder turns free text into a vector comparable with stored dorm
// description embeddings
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// nearestTo embeds text for similarity ordering. It returns nil when there is
// nothing to embed or the embedder fails, leaving the catalog order alone.
func nearestTo(ctx context.Context, e QueryEmbedder, text string) []float32 {
	if e == nil || strings.TrimSpace(text) == "" {
		return nil
	}
	vec, err := e.EmbedQuery(ctx, text)
	if err != nil {
		log.Printf("Warning: Failed to embed query, using catalog order: %v", err)
		return nil
	}
	return vec
}

// ChatOptions tunes the chat service
type ChatOptions struct {
	HistoryLimit     int
	MaxMessageLength int
	CandidateLimit   int
}

// ChatService runs chat turns: command handling, filter memory, dorm
// suggestions and the model reply.
type ChatService struct {
	sessions SessionStore
	prefs    PreferenceStore
	dorms    DormCatalog
	ai       CompletionClient
	ranker   *Ranker
	embedder QueryEmbedder
	opts     ChatOptions
	now      func() time.Time
}

// NewChatService creates a new chat service. dorms and ai may be nil.
func NewChatService(
	sessions SessionStore,
	prefs PreferenceStore,
	dorms DormCatalog,
	ai CompletionClient,
	ranker *Ranker,
	opts ChatOptions,
) *ChatService {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 20
	}
	if opts.MaxMessageLength <= 0 {
		opts.MaxMessageLength = 500
	}
	return &ChatService{
		sessions: sessions,
		prefs:    prefs,
		dorms:    dorms,
		ai:       ai,
		ranker:   ranker,
		opts:     opts,
		now:      time.Now,
	}
}

// UseEmbedder orders suggested dorms by similarity to the user's message
func (s *ChatService) UseEmbedder(e QueryEmbedder) {
	s.embedder = e
}

// chatTurn is the state of one message between preparation and reply
type chatTurn struct {
	sessionID   string
	userID      *string
	message     string
	session     *model.ChatSession
	persisted   bool
	filters     model.ChatFilters
	suggestions []model.ScoredCandidate
	hasContext  bool
}

// HandleTurn answers one chat message
func (s *ChatService) HandleTurn(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error) {
	turn, resp, err := s.prepare(ctx, req)
	if err != nil || resp != nil {
		return resp, err
	}

	reply, err := s.reply(ctx, turn, nil)
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, turn, reply), nil
}

// StreamTurn answers one chat message, passing reply text to onDelta as it
// arrives. Commands answer without deltas.
func (s *ChatService) StreamTurn(ctx context.Context, req model.ChatRequest, onDelta func(delta string) error) (*model.ChatResponse, error) {
	turn, resp, err := s.prepare(ctx, req)
	if err != nil || resp != nil {
		return resp, err
	}

	reply, err := s.reply(ctx, turn, onDelta)
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, turn, reply), nil
}

// Validate checks a chat message and returns its sanitized form
func (s *ChatService) Validate(req model.ChatRequest) (string, error) {
	if err := ValidateMessage(req.Message, s.opts.MaxMessageLength); err != nil {
		return "", err
	}
	message := SanitizeMessage(req.Message, s.opts.MaxMessageLength)
	if message == "" {
		return "", ErrEmptyMessage
	}
	return message, nil
}

// Memory returns the stored preferences of a user, or nil
func (s *ChatService) Memory(ctx context.Context, userID string) (*model.Preferences, error) {
	prefs, err := s.prefs.GetPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load memory: %w", err)
	}
	return prefs, nil
}

// ForgetUser clears the stored preferences of a user. Sessions are left to
// expire.
func (s *ChatService) ForgetUser(ctx context.Context, userID string) error {
	if err := s.prefs.ClearPreferences(ctx, userID); err != nil {
		return fmt.Errorf("failed to reset memory: %w", err)
	}
	return nil
}

// prepare validates the message and loads everything the reply needs. A
// non-nil response means a command already answered the turn.
func (s *ChatService) prepare(ctx context.Context, req model.ChatRequest) (*chatTurn, *model.ChatResponse, error) {
	message, err := s.Validate(req)
	if err != nil {
		return nil, nil, err
	}

	turn := &chatTurn{
		sessionID: s.sessionIDFor(req.SessionID),
		userID:    trimmedOrNil(req.UserID),
		message:   message,
	}

	if cmd, ok := matchCommand(message); ok {
		log.Printf("[DEBUG] Chat command %q for session %s", cmd.name, turn.sessionID)
		resp, err := cmd.run(s, ctx, turn)
		return nil, resp, err
	}

	session, err := s.sessions.GetOrCreateSession(ctx, turn.sessionID, turn.userID)
	if err != nil {
		log.Printf("Warning: Session store unavailable, continuing without memory: %v", err)
		now := s.now().UTC()
		session = &model.ChatSession{SessionID: turn.sessionID, UserID: turn.userID, CreatedAt: now, UpdatedAt: now}
	} else {
		turn.persisted = true
	}
	turn.session = session

	var prefs *model.Preferences
	if turn.userID != nil && turn.persisted {
		prefs, err = s.prefs.GetPreferences(ctx, *turn.userID)
		if err != nil {
			log.Printf("Warning: Failed to load preferences for %s: %v", *turn.userID, err)
			prefs = nil
		}
	}

	filters, learned := ResolveFilters(message, session.Context, prefs)
	turn.filters = filters

	if turn.userID != nil && turn.persisted && !learned.IsEmpty() {
		if err := s.prefs.SaveLearnedPreferences(ctx, *turn.userID, learned); err != nil {
			log.Printf("Warning: Failed to save learned preferences for %s: %v", *turn.userID, err)
		}
	}

	turn.suggestions = s.suggestDorms(ctx, filters, turn.message)
	turn.hasContext = len(session.History) > 0 || !filters.IsEmpty()

	log.Printf("[DEBUG] Chat turn session=%s filters=%s suggestions=%d",
		turn.sessionID, describeFilters(filters), len(turn.suggestions))

	return turn, nil, nil
}

// suggestDorms ranks catalog listings against the current filters. The
// budget is a hard price ceiling; the other filters only add score. Equal
// scores keep the catalog order, which follows message similarity when an
// embedder is set.
func (s *ChatService) suggestDorms(ctx context.Context, filters model.ChatFilters, message string) []model.ScoredCandidate {
	if s.dorms == nil || s.ranker == nil {
		return nil
	}

	q := model.DormQuery{Limit: s.opts.CandidateLimit, Near: nearestTo(ctx, s.embedder, message)}
	var ceilingFilter *model.FilterSpec
	if filters.Budget != nil {
		ceiling := float64(*filters.Budget)
		q.PriceMax = &ceiling
		ceilingFilter = &model.FilterSpec{BudgetMax: &ceiling}
	}

	dorms, err := s.dorms.ListDorms(ctx, q)
	if err != nil {
		log.Printf("Warning: Failed to load dorms for suggestions: %v", err)
		return nil
	}

	candidates := make([]model.Profile, len(dorms))
	for i, d := range dorms {
		candidates[i] = d.AsProfile()
	}
	return s.ranker.Rank(filtersAsProfile(filters), candidates, ceilingFilter, 0)
}

// reply produces the assistant text, from the model when one is configured
// and locally otherwise. A timed-out model call is retried once if nothing
// was streamed yet.
func (s *ChatService) reply(ctx context.Context, turn *chatTurn, onDelta func(string) error) (string, error) {
	if s.ai == nil || !s.ai.IsEnabled() {
		text := localReply(turn.filters, turn.suggestions)
		if onDelta != nil {
			if err := onDelta(text); err != nil {
				return "", err
			}
		}
		return text, nil
	}

	messages := buildPrompt(turn)
	streamed := false
	call := func() (string, error) {
		if onDelta == nil {
			return s.ai.Complete(ctx, messages)
		}
		return s.ai.CompleteStream(ctx, messages, func(delta string) error {
			streamed = true
			return onDelta(delta)
		})
	}

	text, err := call()
	if err != nil && isTimeout(err) && !streamed && ctx.Err() == nil {
		log.Printf("Warning: Completion timed out, retrying once: %v", err)
		text, err = call()
	}
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	return text, nil
}

// finish records the turn in the session and builds the response. A
// concurrent update is resolved by reloading and re-applying the turn once.
func (s *ChatService) finish(ctx context.Context, turn *chatTurn, reply string) *model.ChatResponse {
	now := s.now().UTC()
	entries := []model.HistoryEntry{
		{Role: model.RoleUser, Content: turn.message, Timestamp: now},
		{Role: model.RoleAssistant, Content: reply, Timestamp: now},
	}
	apply := func(session *model.ChatSession) {
		session.History = session.History.Append(s.opts.HistoryLimit, entries...)
		session.Context = turn.filters
		if session.UserID == nil {
			session.UserID = turn.userID
		}
	}

	if turn.persisted {
		apply(turn.session)
		err := s.sessions.UpdateSession(ctx, turn.session)
		if errors.Is(err, repository.ErrSessionConflict) {
			log.Printf("[DEBUG] Session %s changed concurrently, re-applying turn", turn.sessionID)
			var fresh *model.ChatSession
			fresh, err = s.sessions.GetOrCreateSession(ctx, turn.sessionID, turn.userID)
			if err == nil {
				apply(fresh)
				err = s.sessions.UpdateSession(ctx, fresh)
			}
		}
		if err != nil {
			log.Printf("Warning: Failed to save session %s: %v", turn.sessionID, err)
		}
	}

	resp := &model.ChatResponse{
		Response:    reply,
		SessionID:   turn.sessionID,
		HasContext:  turn.hasContext,
		Suggestions: turn.suggestions,
	}
	if !turn.filters.IsEmpty() {
		filters := turn.filters
		resp.Filters = &filters
	}
	return resp
}

func (s *ChatService) sessionIDFor(requested *string) string {
	if id := trimmedOrNil(requested); id != nil {
		return *id
	}
	return fmt.Sprintf("guest_%d", s.now().UnixMilli())
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// filtersAsProfile turns chat filters into a requester for the dorm rubric
func filtersAsProfile(f model.ChatFilters) model.Profile {
	p := model.Profile{
		University: f.University,
		RoomType:   f.RoomType,
		Area:       f.Area,
	}
	if f.Budget != nil {
		budget := float64(*f.Budget)
		p.Budget = &budget
	}
	if f.Amenity != nil {
		p.Amenities = model.JSONArray{*f.Amenity}
	}
	return p
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
