package session

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"chathub-backend/logic"
	"chathub-backend/models"
)

// Draft identifiers are time-based and prefixed so they can never be mistaken
// for a store-assigned uuid.
const draftPrefix = "draft-"

// IsDraftID reports whether id belongs to the draft identifier space.
func IsDraftID(id string) bool {
	return strings.HasPrefix(id, draftPrefix)
}

// Entry is one transcript line in the projection.
type Entry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Chat is one sidebar entry plus its cached transcript. A draft chat exists
// only in this projection until the store assigns a durable identifier.
type Chat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	Messages  []Entry   `json:"messages"`
}

// IsDraft reports whether the chat has not been assigned a durable id yet.
func (c Chat) IsDraft() bool { return IsDraftID(c.ID) }

// View is one user's working set: conversation summaries ordered most recent
// first and the active conversation's cached transcript. The store stays
// authoritative for everything except drafts; every entry here is a
// read-through copy replaced wholesale on reconciliation or activation.
type View struct {
	mu       sync.Mutex
	chats    []Chat
	activeID string
}

func NewView() *View {
	return &View{}
}

// StartDraft adds an optimistic draft conversation holding the user's first
// message and makes it active. The draft id never reaches the store.
func (v *View) StartDraft(text, model string, now time.Time) Chat {
	draft := Chat{
		ID:        draftPrefix + strconv.FormatInt(now.UnixNano(), 10),
		Title:     logic.DeriveTitle(text),
		Model:     model,
		CreatedAt: now,
		Messages: []Entry{{
			Role:      models.RoleUser,
			Content:   text,
			Timestamp: now,
		}},
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.chats = append([]Chat{draft}, v.chats...)
	v.activeID = draft.ID
	return draft
}

// FailDraft annotates a draft with a visible model-role error entry. The
// user's original text stays in place so a retry loses nothing.
func (v *View) FailDraft(draftID, message string, now time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.chats {
		if v.chats[i].ID == draftID {
			v.chats[i].Messages = append(v.chats[i].Messages, Entry{
				Role:      models.RoleModel,
				Content:   message,
				Timestamp: now,
			})
			return true
		}
	}
	return false
}

// ResolveDraft replaces a draft wholesale once the store has assigned a
// durable identifier: the draft is dropped, the authoritative summary list is
// installed, and the durable conversation becomes active with its true
// transcript. Nothing of the draft is merged.
func (v *View) ResolveDraft(draftID string, summaries []models.Conversation, active *models.Conversation, messages []models.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.chats {
		if v.chats[i].ID == draftID {
			v.chats = append(v.chats[:i], v.chats[i+1:]...)
			break
		}
	}
	v.installSummaries(summaries)
	v.setActive(active, messages)
}

// ReplaceAll installs the authoritative summary list, discarding any drafts
// and cached transcripts except the active one's.
func (v *View) ReplaceAll(summaries []models.Conversation) {
	v.mu.Lock()
	defer v.mu.Unlock()

	var activeMessages []Entry
	for _, c := range v.chats {
		if c.ID == v.activeID {
			activeMessages = c.Messages
			break
		}
	}
	v.installSummaries(summaries)

	stillThere := false
	for i := range v.chats {
		if v.chats[i].ID == v.activeID {
			v.chats[i].Messages = activeMessages
			stillThere = true
			break
		}
	}
	if !stillThere {
		v.activeID = ""
	}
}

// SetActive replaces the cached transcript for a conversation with the
// authoritative one and marks it active.
func (v *View) SetActive(convo *models.Conversation, messages []models.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setActive(convo, messages)
}

// Remove drops a chat from the projection, clearing the active selection when
// it pointed at the removed chat.
func (v *View) Remove(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.chats {
		if v.chats[i].ID == id {
			v.chats = append(v.chats[:i], v.chats[i+1:]...)
			break
		}
	}
	if v.activeID == id {
		v.activeID = ""
	}
}

// Chats returns a copy of the sidebar entries, most recent first.
func (v *View) Chats() []Chat {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Chat, len(v.chats))
	copy(out, v.chats)
	return out
}

// ActiveID returns the identifier of the active chat, or empty.
func (v *View) ActiveID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.activeID
}

// ActiveChat returns the active chat and whether one is selected.
func (v *View) ActiveChat() (Chat, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, c := range v.chats {
		if c.ID == v.activeID {
			return c, true
		}
	}
	return Chat{}, false
}

func (v *View) installSummaries(summaries []models.Conversation) {
	chats := make([]Chat, 0, len(summaries))
	for _, s := range summaries {
		chats = append(chats, chatFromConversation(&s))
	}
	v.chats = chats
}

func (v *View) setActive(convo *models.Conversation, messages []models.Message) {
	if convo == nil {
		v.activeID = ""
		return
	}
	chat := chatFromConversation(convo)
	chat.Messages = entriesFromMessages(messages)

	replaced := false
	for i := range v.chats {
		if v.chats[i].ID == chat.ID {
			v.chats[i] = chat
			replaced = true
			break
		}
	}
	if !replaced {
		v.chats = append([]Chat{chat}, v.chats...)
	}
	v.activeID = chat.ID
}

func chatFromConversation(c *models.Conversation) Chat {
	return Chat{
		ID:        c.ID.String(),
		Title:     c.Title,
		Model:     c.Model,
		CreatedAt: c.CreatedAt,
	}
}

func entriesFromMessages(messages []models.Message) []Entry {
	entries := make([]Entry, 0, len(messages))
	for _, m := range messages {
		entries = append(entries, Entry{
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.CreatedAt,
		})
	}
	return entries
}
