package bot

import (
	"fmt"

	"github.com/papercomputeco/disrello/pkg/eventstream"
	"github.com/papercomputeco/disrello/pkg/model"
	"github.com/papercomputeco/disrello/pkg/parsing"
)

// handleTodoCapture records every message into channel memory and turns
// checkbox and TODO: lines into cards. Casual task phrases are offered for
// confirmation first.
func (b *Bot) handleTodoCapture(t *turn) error {
	handled, err := t.consumeConfirmation()
	if err != nil || handled {
		return err
	}

	b.memory.Record(t.memoryKey(), t.msg.AuthorID, t.msg.Text, t.msg.TS)

	// Commands carry their own arguments; "!card create TODO: x" is not a
	// capture.
	if parsing.IsCommand(t.msg.Text) {
		return nil
	}

	source := fmt.Sprintf("<#%s> / %s", t.msg.ChannelID, t.msg.Author().DisplayName())
	if items := parsing.ExtractTodos(t.msg.Text); len(items) > 0 {
		return t.postTodoCards(items, source)
	}
	if item, ok := parsing.ExtractTaskIntent(t.msg.Text); ok {
		t.offerConfirm([]string{item}, source)
	}
	return nil
}

// consumeConfirmation answers a live pending candidate with the author's
// yes or no. Anything else leaves the candidate waiting.
func (t *turn) consumeConfirmation() (bool, error) {
	key := t.userKey()
	p := t.bot.state.peekPending(key, t.now, t.settings.PendingTTL)
	if p == nil {
		return false, nil
	}

	switch {
	case parsing.IsYes(t.msg.Text):
		t.bot.state.dropPending(key)
		t.consumed = true
		if err := t.postTodoCards(p.items, p.source); err != nil {
			return true, err
		}
		t.say("✅ Added to TODO.")
		return true, nil
	case parsing.IsNo(t.msg.Text):
		t.bot.state.dropPending(key)
		t.consumed = true
		t.say("🛑 Cancelled.")
		return true, nil
	}
	return false, nil
}

func (t *turn) offerConfirm(items []string, source string) {
	t.bot.state.setPending(t.userKey(), &pending{items: items, source: source, at: t.now})
	t.show(confirmView(items))
}

// postTodoCards adds items to the TODO inbox and posts a tracked capture
// view. The post goes to the TODO channel unless forwarding from other
// channels is disabled for the guild.
func (t *turn) postTodoCards(items []string, source string) error {
	if len(items) == 0 {
		return nil
	}
	store, err := t.store()
	if err != nil {
		return err
	}
	s := t.settings

	store.UpsertMember(t.msg.Author(), t.now)
	ids := store.AddCardsToTodoInbox(s.TodoBoardName, s.TodoInboxName, t.msg.AuthorID, items, source, t.now)
	t.touch()

	board := store.TodoBoard(s.TodoBoardName, s.TodoInboxName)
	inbox := board.GetOrCreateList(s.TodoInboxName)
	for _, c := range inbox.Cards[len(inbox.Cards)-len(ids):] {
		t.emitCard(eventstream.EventTypeCardCreated, model.CardRef{Board: board, List: inbox, Card: c})
	}

	postID := model.NewID(model.KindPost)
	t.bot.state.trackPost(postID, &todoPost{guild: t.guild, cardIDs: ids, created: t.now})

	r := Reply{
		View:      captureView(items, ids, source, t.msg.AuthorID, s.TodoBoardName, s.TodoInboxName),
		PostID:    postID,
		Reactions: []string{"✅"},
	}
	if todo, ok := t.channel(store, RoleTodo); ok && todo != t.msg.ChannelID && forwardTodos(store, s) {
		r.ChannelID = todo
	}
	t.replies = append(t.replies, r)
	return nil
}

func forwardTodos(store *model.GuildStore, s *Settings) bool {
	if v := store.Settings.ForwardTodosFromOtherChannels; v != nil {
		return *v
	}
	return s.ForwardTodosFromOtherChannels
}
