package bot

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/papercomputeco/disrello/pkg/eventstream"
	"github.com/papercomputeco/disrello/pkg/model"
	"github.com/papercomputeco/disrello/pkg/parsing"
	"github.com/papercomputeco/disrello/pkg/utils"
)

const (
	usageBoardShortcut = `!board "NameOrId"`
	usageBoardCreate   = `!boardscreate "Board name"` + "` or `" + `!board(create) "Name"`
	usageBoardView     = `!board(view) "NameOrId"`
	usageList          = `!list create "Board" "List name"` + "`  OR  `" + `!list "List name"`
	usageCardCreate    = `!card create "Board" "List" "Title" ("Desc")` + "`  OR  `" + `!card create "Title"`
	usageCardList      = `!card(list) "BoardRef" [List]`
	usageCardUpdate    = `!card(done|toggle|progress|delete) "BoardRef" card_xxxxxx ...`
	usageCardDone      = `!card(done) "Board" card_xxxxxx true|false`
	usageCardProgress  = `!card(progress) "Board" card_xxxxxx 0-100`
	usageDeleteShort   = "!delete card <CardNameOrId>` or `!delete all"
)

const cardIDPrefix = model.KindCard + "_"

// handleCommands serves the `!` command grammar and `!** help`.
func (b *Bot) handleCommands(t *turn) error {
	text := t.msg.Text

	if strings.HasPrefix(text, parsing.SystemPrefix) {
		if !parsing.IsSystemHelp(text) {
			return nil
		}
		store, err := t.store()
		if err != nil {
			return err
		}
		ai, _ := t.channel(store, RoleAI)
		todo, _ := t.channel(store, RoleTodo)
		t.show(systemHelpView(ai, todo))
		return nil
	}
	if !parsing.IsCommand(text) {
		return nil
	}

	in, ok := parsing.Parse(text)
	if !ok {
		if hint, ok := parsing.UsageHint(text); ok {
			return usage(hint)
		}
		return nil
	}

	switch in.Command {
	case parsing.CommandHelp:
		store, err := t.store()
		if err != nil {
			return err
		}
		ai, _ := t.channel(store, RoleAI)
		todo, _ := t.channel(store, RoleTodo)
		t.show(helpView(ai, todo))
		return nil
	case parsing.CommandBoards:
		return t.boardsCommand()
	case parsing.CommandLists:
		return t.listsCommand()
	case parsing.CommandCards:
		return t.cardsCommand()
	case parsing.CommandRender:
		return t.renderCommand(in)
	case parsing.CommandDelete:
		return t.deleteCommand(in)
	case parsing.CommandBoard:
		return t.boardCommand(in)
	case parsing.CommandList:
		return t.listCommand(in)
	case parsing.CommandCard:
		return t.cardCommand(in)
	}
	// ai, summarise, search and settings belong to their own handlers.
	return nil
}

// ensureDefault creates the board's default list and records the change.
func (t *turn) ensureDefault(b *model.Board) *model.List {
	n := len(b.Lists)
	l := b.EnsureDefaultList()
	if len(b.Lists) != n {
		t.touch()
	}
	return l
}

func boardLines(store *model.GuildStore) string {
	lines := []string{"**Boards:**"}
	for _, b := range store.Boards {
		lines = append(lines, fmt.Sprintf("- `%s` → **%s**", b.ID, b.Name))
	}
	return utils.Clip(strings.Join(lines, "\n"), maxTextLen)
}

func (t *turn) boardsCommand() error {
	store, err := t.store()
	if err != nil {
		return err
	}
	if len(store.Boards) == 0 {
		t.say("(No boards yet.)")
		return nil
	}
	t.say(boardLines(store))
	return nil
}

func (t *turn) listsCommand() error {
	store, err := t.store()
	if err != nil {
		return err
	}
	if len(store.Boards) == 0 {
		t.say("(No boards yet.)")
		return nil
	}
	lines := []string{"**Lists (all boards):**"}
	for _, b := range store.Boards {
		t.ensureDefault(b)
		for _, l := range b.Lists {
			lines = append(lines, fmt.Sprintf("- **%s** → `%s` **%s** (%d cards)", b.Name, l.ID, l.Name, len(l.Cards)))
		}
	}
	t.say(utils.Clip(strings.Join(lines, "\n"), maxTextLen))
	return nil
}

func (t *turn) cardsCommand() error {
	store, err := t.store()
	if err != nil {
		return err
	}
	target := t.msg.AuthorID
	if len(t.msg.Mentions) > 0 {
		target = t.msg.Mentions[0]
	}
	refs := store.CardsAssignedTo(target)
	if len(refs) == 0 {
		t.say("(No assigned cards.)")
		return nil
	}
	lines := []string{fmt.Sprintf("**Cards assigned to <@%s>:**", target)}
	for _, r := range refs {
		lines = append(lines, fmt.Sprintf("- `%s` **%s** (board: **%s**, list: **%s**)",
			r.Card.ID, utils.Clip(r.Card.Title, 80), r.Board.Name, r.List.Name))
	}
	t.say(utils.Clip(strings.Join(lines, "\n"), maxTextLen))
	return nil
}

func (t *turn) renderCommand(in *parsing.Intent) error {
	store, err := t.store()
	if err != nil {
		return err
	}

	if in.Action == parsing.ActionShortcut && in.BoardRef != "" && len(in.Args) == 0 && in.ListName == "" {
		b, ok := store.ResolveBoard(in.BoardRef)
		if !ok {
			return notFound("Board not found.")
		}
		t.ensureDefault(b)
		for _, v := range renderViews(b) {
			t.show(v)
		}
		return nil
	}

	mode := strings.ToLower(strings.TrimSpace(in.RawRest))
	switch mode {
	case "boards", "board", "lists", "list", "cards", "card":
	default:
		return usage(parsing.UsageRender)
	}
	if len(store.Boards) == 0 {
		t.say("(No boards yet.)")
		return nil
	}
	for _, b := range store.Boards {
		t.ensureDefault(b)
		switch mode {
		case "boards", "board":
			t.show(boardView(b))
		case "lists", "list":
			for _, l := range b.Lists {
				t.show(listView(b, l))
			}
		default:
			for _, l := range b.Lists {
				for _, c := range l.Cards {
					t.show(cardView(b, l, c))
				}
			}
		}
	}
	return nil
}

func (t *turn) deleteCommand(in *parsing.Intent) error {
	store, err := t.store()
	if err != nil {
		return err
	}
	author := t.msg.AuthorID
	tail := strings.TrimSpace(in.RawRest)

	if strings.EqualFold(tail, "all") {
		for _, r := range store.CardsAssignedTo(author) {
			t.emitCard(eventstream.EventTypeCardDeleted, r)
		}
		n := store.DeleteCardsAssignedTo(author)
		t.touch()
		t.sayf("🗑️ Deleted %d card(s) assigned to you.", n)
		return nil
	}

	fields := strings.Fields(tail)
	if len(fields) < 2 {
		return usage(usageDeleteShort)
	}
	kind := strings.ToLower(fields[0])
	refRaw := strings.TrimSpace(tail[len(fields[0]):])
	ref := refRaw
	if quoted := parsing.ExtractQuotedArgs(refRaw); len(quoted) > 0 {
		ref = quoted[0]
	}
	ref = strings.Trim(strings.TrimSpace(ref), `"`)
	if ref == "" {
		return usage(usageDeleteShort)
	}

	switch kind {
	case "card":
		r, ok := store.ResolveCardAnywhere(ref)
		if !ok {
			return notFound("Card not found.")
		}
		if !t.canDelete(r.Card) {
			return denied(deniedCardDelete)
		}
		t.emitCard(eventstream.EventTypeCardDeleted, r)
		r.List.RemoveCard(r.Card)
		t.touch()
		t.say("🗑️ Card deleted.")
		return nil

	case "list":
		b, l, ok := store.ResolveListAnywhere(ref)
		if !ok {
			return notFound("List not found.")
		}
		if l.CreatedBy != author && !t.msg.IsAdmin {
			return denied("Only admins (or the list creator) can delete lists.")
		}
		for _, c := range l.Cards {
			t.emitCard(eventstream.EventTypeCardDeleted, model.CardRef{Board: b, List: l, Card: c})
		}
		b.RemoveList(l)
		t.touch()
		t.say("🗑️ List deleted.")
		return nil

	case "board":
		b, ok := store.ResolveBoard(ref)
		if !ok {
			return notFound("Board not found.")
		}
		if b.CreatedBy != author && !t.msg.IsAdmin {
			return denied("Only admins (or the board creator) can delete boards.")
		}
		for _, l := range b.Lists {
			for _, c := range l.Cards {
				t.emitCard(eventstream.EventTypeCardDeleted, model.CardRef{Board: b, List: l, Card: c})
			}
		}
		store.RemoveBoard(b)
		t.touch()
		t.say("🗑️ Board deleted.")
		return nil
	}
	return usage(usageDeleteShort)
}

func (t *turn) boardCommand(in *parsing.Intent) error {
	store, err := t.store()
	if err != nil {
		return err
	}
	author := t.msg.AuthorID

	switch in.Action {
	case parsing.ActionShortcut:
		if in.BoardRef == "" && in.RawRest == "" {
			if len(store.Boards) == 0 {
				t.say("(No boards yet.)")
				return nil
			}
			t.say(boardLines(store))
			return nil
		}
		if in.BoardRef == "" {
			return usage(usageBoardShortcut)
		}
		b, ok := store.ResolveBoard(in.BoardRef)
		if !ok {
			b = store.AddBoard(in.BoardRef, author)
			t.touch()
			t.postToTodo(store, Reply{Text: fmt.Sprintf("📋 Board created: **%s** (`%s`)", b.Name, b.ID)})
			return nil
		}
		t.ensureDefault(b)
		t.show(boardView(b))
		return nil

	case parsing.ActionCreate:
		if in.BoardRef == "" {
			return usage(usageBoardCreate)
		}
		if _, ok := store.ResolveBoard(in.BoardRef); ok {
			return invalid("Board already exists.")
		}
		b := store.AddBoard(in.BoardRef, author)
		t.touch()
		t.postToTodo(store, Reply{Text: fmt.Sprintf("📋 Board created: **%s** (`%s`)", b.Name, b.ID)})
		return nil

	case parsing.ActionView:
		if in.BoardRef == "" {
			return usage(usageBoardView)
		}
		b, ok := store.ResolveBoard(in.BoardRef)
		if !ok {
			return notFound("Board not found.")
		}
		t.ensureDefault(b)
		t.show(boardView(b))
		return nil

	case parsing.ActionList:
		if in.BoardRef == "" {
			if len(store.Boards) == 0 {
				t.say("No boards yet.")
				return nil
			}
			t.say(boardLines(store))
			return nil
		}
		b, ok := store.ResolveBoard(in.BoardRef)
		if !ok {
			return notFound("Board not found.")
		}
		t.ensureDefault(b)
		if in.ListName != "" {
			n := len(b.Lists)
			l := b.GetOrCreateList(in.ListName)
			if len(b.Lists) != n {
				t.touch()
			}
			t.show(listView(b, l))
			return nil
		}
		lines := []string{fmt.Sprintf("**Lists in %s:**", b.Name)}
		for _, l := range b.Lists {
			lines = append(lines, fmt.Sprintf("- `%s` → **%s** (%d cards)", l.ID, l.Name, len(l.Cards)))
		}
		t.say(utils.Clip(strings.Join(lines, "\n"), maxTextLen))
		return nil
	}
	return invalid("Unknown board action.")
}

// targetBoard resolves ref, creating the board when missing. An empty ref
// selects the author's personal inbox board.
func (t *turn) targetBoard(store *model.GuildStore, ref string) *model.Board {
	if ref == "" {
		n := len(store.Boards)
		b := store.PersonalBoard(t.msg.Author(), t.now)
		if len(store.Boards) != n {
			t.touch()
		}
		return b
	}
	b, created := store.GetOrCreateBoard(ref, t.msg.AuthorID)
	if created {
		t.touch()
	}
	return b
}

func (t *turn) listCommand(in *parsing.Intent) error {
	if in.Action != parsing.ActionCreate && in.Action != parsing.ActionShortcut {
		return usage(usageList)
	}
	store, err := t.store()
	if err != nil {
		return err
	}

	ref, title := in.BoardRef, ""
	if ref != "" && len(in.Args) == 0 && in.ListName == "" {
		title, ref = ref, ""
	} else {
		if ref == "" {
			return usage(usageList)
		}
		title = in.ListName
		if title == "" && len(in.Args) > 0 {
			title = in.Args[0]
		}
		if strings.TrimSpace(title) == "" {
			return usage(usageList)
		}
	}

	b := t.targetBoard(store, ref)
	t.ensureDefault(b)
	l := b.GetOrCreateList(title)
	if l.CreatedBy == "" {
		l.CreatedBy = t.msg.AuthorID
	}
	t.touch()
	t.postToTodo(store, Reply{View: listView(b, l)})
	return nil
}

func (t *turn) cardCommand(in *parsing.Intent) error {
	switch in.Action {
	case parsing.ActionCreate:
		return t.cardCreate(in)
	case parsing.ActionList:
		return t.cardList(in)
	case parsing.ActionDone, parsing.ActionToggle, parsing.ActionProgress, parsing.ActionDelete:
		return t.cardUpdate(in)
	}
	return invalid("Unknown card action.")
}

func (t *turn) cardCreate(in *parsing.Intent) error {
	store, err := t.store()
	if err != nil {
		return err
	}

	ref, listName, args := in.BoardRef, in.ListName, in.Args
	var title, desc string
	if ref != "" && len(args) == 0 && listName == "" {
		title, ref = ref, ""
	} else {
		if ref == "" || len(args) == 0 || strings.TrimSpace(args[0]) == "" {
			return usage(usageCardCreate)
		}
		// `!card create "Board" "List" "Title" ("Desc")` names the list
		// positionally; the fused form keeps "Title" "Desc".
		if listName == "" && len(args) >= 2 && (in.Word != "cardscreate" || len(args) >= 3) {
			listName, title = args[0], args[1]
			if len(args) > 2 {
				desc = args[2]
			}
		} else {
			title = args[0]
			if len(args) > 1 {
				desc = args[1]
			}
		}
	}

	b := t.targetBoard(store, ref)
	l := t.ensureDefault(b)
	if listName != "" {
		l = b.GetOrCreateList(listName)
		if l.CreatedBy == "" {
			l.CreatedBy = t.msg.AuthorID
		}
	}

	c := model.NewCard(title, desc, t.msg.AuthorID, t.now)
	l.Cards = append(l.Cards, c)
	t.touch()
	t.emitCard(eventstream.EventTypeCardCreated, model.CardRef{Board: b, List: l, Card: c})
	t.postToTodo(store, Reply{View: cardView(b, l, c)})
	return nil
}

func (t *turn) cardList(in *parsing.Intent) error {
	if in.BoardRef == "" {
		return usage(usageCardList)
	}
	store, err := t.store()
	if err != nil {
		return err
	}
	b, ok := store.ResolveBoard(in.BoardRef)
	if !ok {
		return notFound("Board not found.")
	}
	t.ensureDefault(b)
	if in.ListName != "" {
		n := len(b.Lists)
		l := b.GetOrCreateList(in.ListName)
		if len(b.Lists) != n {
			t.touch()
		}
		t.show(listView(b, l))
		return nil
	}
	for _, l := range b.Lists {
		t.show(listView(b, l))
	}
	return nil
}

const deniedCardDelete = "You can only delete your own cards."

// canDelete reports whether the speaker may remove c: guild admins, the
// card's creator and its assignee may.
func (t *turn) canDelete(c *model.Card) bool {
	return t.msg.IsAdmin || c.CreatedBy == t.msg.AuthorID || c.AssignedTo == t.msg.AuthorID
}

func (t *turn) cardUpdate(in *parsing.Intent) error {
	if in.BoardRef == "" {
		return usage(usageCardUpdate)
	}
	store, err := t.store()
	if err != nil {
		return err
	}
	b, ok := store.ResolveBoard(in.BoardRef)
	if !ok {
		return notFound("Board not found.")
	}

	args := positionalArgs(in)
	if len(args) == 0 || !strings.HasPrefix(strings.ToLower(args[0]), cardIDPrefix) {
		return invalid("Missing card id.")
	}
	cardID := args[0]

	if in.Action == parsing.ActionDelete {
		r, ok := cardByID(b, cardID)
		if !ok {
			return notFound("Card not found.")
		}
		if !t.canDelete(r.Card) {
			return denied(deniedCardDelete)
		}
		t.emitCard(eventstream.EventTypeCardDeleted, r)
		b.DeleteCard(r.Card.ID)
		t.touch()
		t.say("🗑️ Deleted.")
		return nil
	}

	l, c, ok := b.FindCard(cardID)
	if !ok {
		return notFound("Card not found in that board.")
	}

	switch in.Action {
	case parsing.ActionDone:
		if len(args) < 2 {
			return usage(usageCardDone)
		}
		v, ok := model.ParseBool(args[1])
		if !ok {
			return invalid("Value must be true/false.")
		}
		c.SetDone(v)
	case parsing.ActionToggle:
		c.Toggle()
	case parsing.ActionProgress:
		if len(args) < 2 {
			return usage(usageCardProgress)
		}
		p, err := strconv.Atoi(strings.TrimSpace(args[1]))
		if err != nil {
			return invalid("Progress must be an integer 0-100.")
		}
		c.SetProgress(p)
	}

	t.touch()
	t.emitCard(eventstream.EventTypeCardUpdated, model.CardRef{Board: b, List: l, Card: c})
	t.show(cardView(b, l, c))
	return nil
}

func cardByID(b *model.Board, id string) (model.CardRef, bool) {
	for _, l := range b.Lists {
		for _, c := range l.Cards {
			if strings.EqualFold(c.ID, id) {
				return model.CardRef{Board: b, List: l, Card: c}, true
			}
		}
	}
	return model.CardRef{}, false
}

// positionalArgs tokenizes the text after the board reference, keeping
// quoted segments whole, so `"Board" card_x true` and `"Board" "card_x"
// "true"` read the same.
func positionalArgs(in *parsing.Intent) []string {
	toks := splitTokens(in.RawRestWithoutList)
	if len(toks) > 0 && toks[0] == in.BoardRef {
		toks = toks[1:]
	}
	return toks
}

func splitTokens(s string) []string {
	var out []string
	for {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		if s == "" {
			return out
		}
		if s[0] == '"' {
			end := strings.IndexByte(s[1:], '"')
			if end < 0 {
				if tok := strings.TrimSpace(s[1:]); tok != "" {
					out = append(out, tok)
				}
				return out
			}
			out = append(out, strings.TrimSpace(s[1:1+end]))
			s = s[end+2:]
			continue
		}
		end := strings.IndexFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == '"' })
		if end < 0 {
			return append(out, s)
		}
		out = append(out, s[:end])
		s = s[end:]
	}
}
