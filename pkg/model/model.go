// Package model holds the persisted task hierarchy: a Document of guild
// stores, each owning members, boards, lists, cards and channel summaries.
//
// Every operation in this package mutates the structures it is handed in
// place. Nothing here persists; callers save through a storage.Driver.
package model

import "time"

const (
	// DefaultListName is the fallback list every board carries.
	DefaultListName = "default"

	MaxTitleLen       = 200
	MaxDescLen        = 2000
	MaxSummaryLen     = 8000
	MaxSummaryKeyword = 20

	// SummaryCapacity bounds GuildStore.Summaries, oldest evicted first.
	SummaryCapacity = 300
)

// Document is the root of the persisted state.
type Document struct {
	Guilds map[string]*GuildStore `json:"guilds"`
}

// GuildStore is one community's tenant scope.
type GuildStore struct {
	Members          map[string]*Member `json:"members"`
	Boards           []*Board           `json:"boards"`
	Summaries        []*Summary         `json:"summaries"`
	Settings         Settings           `json:"settings"`
	AI               AISettings         `json:"ai"`
	ChannelOverrides map[string]string  `json:"channel_overrides"`
}

// Settings holds the whitelisted per-guild behavior overrides. A nil field
// means "use the configured default".
type Settings struct {
	AutoCaptureTasksFromAI        *bool    `json:"auto_capture_tasks_from_ai,omitempty"`
	ForwardTodosFromOtherChannels *bool    `json:"forward_todos_from_other_channels,omitempty"`
	AICooldownS                   *float64 `json:"ai_cooldown_s,omitempty"`
}

// AISettings overrides the configured LLM provider and model for a guild.
type AISettings struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	RAMGB    int    `json:"ram_gb,omitempty"`
}

// Member is per-user metadata inside a guild.
type Member struct {
	Name           string    `json:"name"`
	JoinedTS       time.Time `json:"joined_ts"`
	LastSeenTS     time.Time `json:"last_seen_ts"`
	DefaultBoardID string    `json:"default_board_id,omitempty"`
}

type Board struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Lists     []*List `json:"lists"`
	CreatedBy string  `json:"created_by,omitempty"`
}

type List struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Cards     []*Card `json:"cards"`
	CreatedBy string  `json:"created_by,omitempty"`
}

// Card is a single task. Done and Progress are kept consistent through
// SetDone, SetProgress and Toggle: a done card always reports 100.
type Card struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Desc       string    `json:"desc"`
	Done       bool      `json:"done"`
	Progress   int       `json:"progress"`
	AssignedTo string    `json:"assigned_to,omitempty"`
	Created    time.Time `json:"created"`
	CreatedBy  string    `json:"created_by,omitempty"`
}

// Summary is a stored channel summary produced by the LLM.
type Summary struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channel_id"`
	AuthorID  string    `json:"author_id"`
	Created   time.Time `json:"created"`
	Keywords  []string  `json:"keywords"`
	Summary   string    `json:"summary"`
}

// User identifies the actor behind an event.
type User struct {
	ID   string
	Name string
}

// DisplayName falls back to the id when no name is known.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{Guilds: map[string]*GuildStore{}}
}

func newGuildStore() *GuildStore {
	return &GuildStore{
		Members:          map[string]*Member{},
		Boards:           []*Board{},
		Summaries:        []*Summary{},
		ChannelOverrides: map[string]string{},
	}
}
