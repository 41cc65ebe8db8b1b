package logic

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"chathub-backend/errs"
	"chathub-backend/models"
	"chathub-backend/pkg"
)

// Sidebar display length for derived titles, in runes.
const titleRuneLimit = 30

const titleEllipsis = "..."

// ConversationStore is the slice of the transcript store the manager needs for
// conversation records.
type ConversationStore interface {
	CreateConversation(userID uint64, title, model string) (*models.Conversation, error)
	GetConversationsByUserID(userID uint64) ([]models.Conversation, error)
	GetConversationByID(id uuid.UUID) (*models.Conversation, error)
	DeleteConversation(id uuid.UUID) (int64, error)
}

// MessageStore is the slice of the transcript store the manager needs for
// message records.
type MessageStore interface {
	CreateMessage(conversationID uuid.UUID, role, content string) (*models.Message, error)
	GetMessagesByConversationID(conversationID uuid.UUID) ([]models.Message, error)
}

// Completer generates a reply from ordered prior turns and the current input.
type Completer interface {
	Complete(ctx context.Context, prior []pkg.Turn, input, model string) (string, error)
}

// Exchange is the outcome of a successful send: the durable conversation and
// the generated reply.
type Exchange struct {
	Conversation *models.Conversation
	Reply        *models.Message
}

// ConversationLogic owns the conversation lifecycle: implicit creation on the
// first message, the append-complete-append send flow, activation, listing and
// authorized deletion. It allows at most one outstanding completion per
// conversation.
type ConversationLogic struct {
	convoStore ConversationStore
	msgStore   MessageStore
	completer  Completer

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

func NewConversationLogic(
	convoStore ConversationStore,
	msgStore MessageStore,
	completer Completer,
) *ConversationLogic {
	return &ConversationLogic{
		convoStore: convoStore,
		msgStore:   msgStore,
		completer:  completer,
		inFlight:   make(map[uuid.UUID]struct{}),
	}
}

// DeriveTitle truncates the first user message to the sidebar display length,
// appending an ellipsis only when something was cut. Counted in runes so a
// character is never split.
func DeriveTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= titleRuneLimit {
		return text
	}
	return string(runes[:titleRuneLimit]) + titleEllipsis
}

// CreateFromFirstMessage turns a first message into a durable conversation:
// create the record with a derived title, append the user message with the
// full text, run the completion and append the reply. When the completion
// fails the conversation and user message stay persisted so nothing the user
// typed is lost; the caller surfaces the error inline and may retry.
func (l *ConversationLogic) CreateFromFirstMessage(ctx context.Context, user *models.User, text, model string) (*Exchange, error) {
	if user == nil {
		return nil, errs.New(errs.Validation, "user is required")
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, errs.New(errs.Validation, "message text is required")
	}
	if model == "" {
		return nil, errs.New(errs.Validation, "model is required")
	}

	convo, err := l.convoStore.CreateConversation(user.ID, DeriveTitle(trimmed), model)
	if err != nil {
		return nil, err
	}
	if _, err := l.msgStore.CreateMessage(convo.ID, models.RoleUser, trimmed); err != nil {
		return nil, err
	}

	if !l.beginCompletion(convo.ID) {
		return nil, errs.New(errs.Conflict, "completion already in flight for this conversation")
	}
	defer l.endCompletion(convo.ID)

	reply, err := l.runCompletion(ctx, convo)
	if err != nil {
		log.Warn().Err(err).Str("conversation_id", convo.ID.String()).
			Msg("completion failed on first message, user message kept")
		return nil, err
	}

	log.Info().Str("conversation_id", convo.ID.String()).Uint64("user_id", user.ID).
		Msg("conversation created from first message")
	return &Exchange{Conversation: convo, Reply: reply}, nil
}

// SendMessage appends a user message to an existing conversation and requests
// a completion. The user message is written before the provider call so it
// survives a provider failure; on failure the transcript keeps the unanswered
// user turn and no model message is appended. A send racing an in-flight
// completion on the same conversation is rejected with a conflict, never
// silently interleaved.
func (l *ConversationLogic) SendMessage(ctx context.Context, conversationID uuid.UUID, user *models.User, text string) (*models.Message, error) {
	if user == nil {
		return nil, errs.New(errs.Validation, "user is required")
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, errs.New(errs.Validation, "message text is required")
	}

	convo, err := l.convoStore.GetConversationByID(conversationID)
	if err != nil {
		return nil, err
	}
	if convo.UserID != user.ID {
		return nil, errs.New(errs.Authorization, "conversation belongs to another user")
	}

	if !l.beginCompletion(convo.ID) {
		return nil, errs.New(errs.Conflict, "completion already in flight for this conversation")
	}
	defer l.endCompletion(convo.ID)

	if _, err := l.msgStore.CreateMessage(convo.ID, models.RoleUser, trimmed); err != nil {
		return nil, err
	}

	reply, err := l.runCompletion(ctx, convo)
	if err != nil {
		log.Warn().Err(err).Str("conversation_id", convo.ID.String()).
			Msg("completion failed, user message kept without a paired reply")
		return nil, err
	}
	return reply, nil
}

// runCompletion assembles the provider context from the stored transcript and
// records the generated reply. Every message except the newest becomes a prior
// turn in original order; the newest is the current input.
func (l *ConversationLogic) runCompletion(ctx context.Context, convo *models.Conversation) (*models.Message, error) {
	history, err := l.msgStore.GetMessagesByConversationID(convo.ID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, errs.New(errs.Validation, "conversation has no pending input")
	}

	prior := make([]pkg.Turn, 0, len(history)-1)
	for _, m := range history[:len(history)-1] {
		prior = append(prior, pkg.Turn{Role: m.Role, Content: m.Content})
	}
	input := history[len(history)-1].Content

	text, err := l.completer.Complete(ctx, prior, input, convo.Model)
	if err != nil {
		return nil, err
	}
	return l.msgStore.CreateMessage(convo.ID, models.RoleModel, text)
}

// Activate loads a conversation with its full ordered transcript. The acting
// user must own the conversation.
func (l *ConversationLogic) Activate(conversationID uuid.UUID, user *models.User) (*models.Conversation, []models.Message, error) {
	if user == nil {
		return nil, nil, errs.New(errs.Validation, "user is required")
	}
	convo, err := l.convoStore.GetConversationByID(conversationID)
	if err != nil {
		return nil, nil, err
	}
	if convo.UserID != user.ID {
		return nil, nil, errs.New(errs.Authorization, "conversation belongs to another user")
	}
	messages, err := l.msgStore.GetMessagesByConversationID(conversationID)
	if err != nil {
		return nil, nil, err
	}
	return convo, messages, nil
}

// ListConversations returns the user's conversation summaries, most recent
// first.
func (l *ConversationLogic) ListConversations(user *models.User) ([]models.Conversation, error) {
	if user == nil {
		return nil, errs.New(errs.Validation, "user is required")
	}
	return l.convoStore.GetConversationsByUserID(user.ID)
}

// CreateConversation creates an empty conversation explicitly. The implicit
// first-message path is the usual entry; this backs the explicit new-chat
// endpoint and falls back to a placeholder title.
func (l *ConversationLogic) CreateConversation(user *models.User, title, model string) (*models.Conversation, error) {
	if user == nil {
		return nil, errs.New(errs.Validation, "user is required")
	}
	if model == "" {
		return nil, errs.New(errs.Validation, "model is required")
	}
	if strings.TrimSpace(title) == "" {
		title = "New Chat"
	}
	return l.convoStore.CreateConversation(user.ID, DeriveTitle(title), model)
}

// DeleteConversation removes a conversation and its messages for its owner.
// Deleting an already-absent conversation is a success: the net effect the
// caller asked for already holds.
func (l *ConversationLogic) DeleteConversation(conversationID uuid.UUID, user *models.User) error {
	if user == nil {
		return errs.New(errs.Validation, "user is required")
	}
	convo, err := l.convoStore.GetConversationByID(conversationID)
	if err != nil {
		if errs.IsKind(err, errs.NotFound) {
			log.Debug().Str("conversation_id", conversationID.String()).
				Msg("delete of absent conversation treated as success")
			return nil
		}
		return err
	}
	if convo.UserID != user.ID {
		return errs.New(errs.Authorization, "conversation belongs to another user")
	}

	removed, err := l.convoStore.DeleteConversation(conversationID)
	if err != nil {
		if errs.IsKind(err, errs.NotFound) {
			return nil
		}
		return err
	}
	if removed == 0 {
		log.Debug().Str("conversation_id", conversationID.String()).
			Msg("conversation was already gone when delete ran")
	}
	return nil
}

func (l *ConversationLogic) beginCompletion(id uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.inFlight[id]; busy {
		return false
	}
	l.inFlight[id] = struct{}{}
	return true
}

func (l *ConversationLogic) endCompletion(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.inFlight, id)
}
