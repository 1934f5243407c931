package bot

import (
	"github.com/papercomputeco/disrello/pkg/model"
)

// ChannelRole is a logical channel a guild can override.
type ChannelRole string

const (
	RoleTodo   ChannelRole = "todo"
	RoleAI     ChannelRole = "ai"
	RoleSystem ChannelRole = "sys"
)

// ResolveChannel walks the fallback chain for role: the guild override,
// then the configured channel. ok is false when neither is set.
func ResolveChannel(store *model.GuildStore, configured Channels, role ChannelRole) (string, bool) {
	if store != nil {
		if id := store.ChannelOverrides[string(role)]; id != "" {
			return id, true
		}
	}
	var id string
	switch role {
	case RoleTodo:
		id = configured.Todo
	case RoleAI:
		id = configured.AIListen
	case RoleSystem:
		id = configured.System
	}
	return id, id != ""
}

func (t *turn) channel(store *model.GuildStore, role ChannelRole) (string, bool) {
	return ResolveChannel(store, t.settings.Channels, role)
}

// postToTodo sends a creation notice to the TODO channel and acknowledges
// in the origin channel. Without a TODO channel the notice stays in the
// origin channel.
func (t *turn) postToTodo(store *model.GuildStore, r Reply) {
	todo, ok := t.channel(store, RoleTodo)
	if !ok || todo == t.msg.ChannelID {
		t.replies = append(t.replies, r)
		return
	}
	r.ChannelID = todo
	t.replies = append(t.replies, r)
	t.sayf("✅ Posted in <#%s>.", todo)
}
