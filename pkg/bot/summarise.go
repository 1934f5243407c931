package bot

import (
	"fmt"
	"strings"

	"github.com/papercomputeco/disrello/pkg/burst"
	"github.com/papercomputeco/disrello/pkg/contextmem"
	"github.com/papercomputeco/disrello/pkg/eventstream"
	"github.com/papercomputeco/disrello/pkg/llm/router"
	"github.com/papercomputeco/disrello/pkg/model"
	"github.com/papercomputeco/disrello/pkg/parsing"
	"github.com/papercomputeco/disrello/pkg/utils"
)

const (
	usageSummariseList = `!summarise(list) "Board" [List]`

	summaryKeywords      = 8
	maxListCards         = 80
	maxCardsPerSection   = 40
	maxTopicLen          = 120
	maxListSummaryShown  = 1800
	maxSmartSummaryShown = 1600
)

// summarySection is one list of the board built from a summary.
type summarySection struct {
	list   string
	prefix string
	items  []string
}

// handleSummarise serves `!summarise` and `!summarize`.
func (b *Bot) handleSummarise(t *turn) error {
	low := strings.ToLower(t.msg.Text)
	if !strings.HasPrefix(low, "!summarise") && !strings.HasPrefix(low, "!summarize") {
		return nil
	}

	in, ok := parsing.ParseFunctionCall(t.msg.Text)
	if !ok {
		in, ok = parsing.ParseShortcut(t.msg.Text)
	}
	if ok && in.Command == parsing.CommandSummarise && in.Action == parsing.ActionList {
		return t.summariseList(in)
	}
	return t.summariseChannel()
}

// summariseList summarises the cards of one list instead of chat.
func (t *turn) summariseList(in *parsing.Intent) error {
	if in.BoardRef == "" {
		return usage(usageSummariseList)
	}
	store, err := t.store()
	if err != nil {
		return err
	}
	board, ok := store.ResolveBoard(in.BoardRef)
	if !ok {
		return notFound("Board not found.")
	}
	var list *model.List
	if in.ListName == "" {
		list, ok = board.ResolveList(model.DefaultListName)
	} else {
		list, ok = board.ResolveList(in.ListName)
	}
	switch {
	case !ok && in.ListName != "":
		return notFound("List not found.")
	case !ok || len(list.Cards) == 0:
		return invalid("That list has no cards.")
	}

	lines := make([]string, 0, min(len(list.Cards), maxListCards))
	for i, c := range list.Cards {
		if i == maxListCards {
			break
		}
		title := strings.TrimSpace(c.Title)
		if desc := strings.TrimSpace(c.Desc); desc != "" {
			lines = append(lines, fmt.Sprintf("- %s: %s", title, desc))
		} else {
			lines = append(lines, "- "+title)
		}
	}
	conv := strings.Join(lines, "\n")
	if strings.TrimSpace(conv) == "" {
		return invalid("Nothing to summarise.")
	}

	sum, err := t.summarise(store, conv)
	if err != nil {
		return err
	}
	t.sayf("🧠 **Summary saved** (`%s`)\n\n%s", sum.ID, utils.Clip(sum.Summary, maxListSummaryShown))
	return nil
}

// summariseChannel summarises the current conversation burst, falling back
// to a channel history scan when memory holds no real conversation, and
// builds a board from the result.
func (t *turn) summariseChannel() error {
	s := t.settings
	picked := burst.Select(t.bot.memory.Entries(t.memoryKey()), t.now, s.Summarise)

	usedFallback := false
	if !burst.IsInContext(picked) {
		history := t.fetchHistory()
		switch {
		case len(history) > 0:
			usedFallback = true
			picked = history
		case len(picked) == 0:
			return invalid("Nothing to summarise (no usable history found).")
		}
	}

	conv := burst.Render(picked, t.displayName)
	if strings.TrimSpace(conv) == "" {
		return invalid("Nothing to summarise.")
	}

	store, err := t.store()
	if err != nil {
		return err
	}
	sum, err := t.summarise(store, conv)
	if err != nil {
		return err
	}

	sections := parsing.ParseSummarySections(sum.Summary)
	topic := utils.Clip(strings.TrimSpace(sections.Topic), maxTopicLen)
	if topic == "" {
		topic = "Channel Summary"
	}
	channelName := t.msg.ChannelName
	if channelName == "" {
		channelName = t.msg.ChannelID
	}

	board, created := store.GetOrCreateBoard(fmt.Sprintf("#%s — %s", channelName, topic), t.msg.AuthorID)
	if created {
		board.EnsureDefaultList()
	}

	cards := 0
	for _, sec := range summaryBoardSections(sections, sum.Summary) {
		list := board.GetOrCreateList(sec.list)
		for i, item := range parsing.DedupeFold(sec.items) {
			if i == maxCardsPerSection {
				break
			}
			desc := fmt.Sprintf("%s\nSource summary: %s\nChannel: <#%s>", sec.prefix, sum.ID, t.msg.ChannelID)
			c := model.NewCard(item, desc, t.msg.AuthorID, t.now)
			list.Cards = append(list.Cards, c)
			t.emitCard(eventstream.EventTypeCardCreated, model.CardRef{Board: board, List: list, Card: c})
			cards++
		}
	}
	t.touch()

	note := ""
	if usedFallback {
		note = " (used channel scan fallback)"
	}
	t.sayf("🧠 **Summary saved** (`%s`)%s\n📋 Built board **%s** with **%d** card(s).\n\n%s",
		sum.ID, note, board.Name, cards, utils.Clip(sum.Summary, maxSmartSummaryShown))
	return nil
}

// summarise runs the summary prompt and stores a non-empty result. The
// document is untouched when the provider fails.
func (t *turn) summarise(store *model.GuildStore, conv string) (*model.Summary, error) {
	providerName, modelName := t.settings.Policy.Effective(store.AI)
	keywords := t.bot.memory.TopKeywords(t.memoryKey(), summaryKeywords)

	ctx, cancel := t.llmContext(providerName)
	defer cancel()
	text, err := t.bot.generator.Generate(ctx, router.Summarise(providerName, modelName, conv, keywords))
	if err != nil {
		return nil, providerFailure(err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("Nothing returned.")
	}

	store.StoreSummary(t.msg.ChannelID, t.msg.AuthorID, text, keywords, t.now)
	t.touch()
	sum := store.Summaries[len(store.Summaries)-1]
	t.emitSummary(sum)
	return sum, nil
}

// fetchHistory scans channel history before the current message. A nil
// fetcher or a failed scan yields no history.
func (t *turn) fetchHistory() []contextmem.Entry {
	if t.bot.history == nil {
		return nil
	}
	raw, err := t.bot.history.FetchHistory(t.ctx, t.msg.GuildID, t.msg.ChannelID, t.msg.ID, t.settings.ScanLimit)
	if err != nil {
		t.bot.logger.Warn("channel history scan failed",
			"guild_id", t.msg.GuildID,
			"channel_id", t.msg.ChannelID,
			"error", err,
		)
		return nil
	}
	return burst.FromHistory(burst.FilterHistory(raw, t.settings.MinContentChars), burst.HistoryKeep)
}

// summaryBoardSections maps a parsed summary to board lists. Action items
// are the remaining bullets of the summary that no other section claimed.
func summaryBoardSections(sec parsing.SummarySections, summary string) []summarySection {
	claimed := map[string]bool{}
	for _, items := range [][]string{sec.KeyPoints, sec.Decisions, sec.OpenQuestions} {
		for _, it := range items {
			claimed[strings.ToLower(strings.TrimSpace(it))] = true
		}
	}
	var actions []string
	for _, it := range parsing.ExtractTasksFromAIReply(summary) {
		k := strings.ToLower(strings.TrimSpace(it))
		if k == "none" || claimed[k] {
			continue
		}
		actions = append(actions, it)
	}

	return []summarySection{
		{list: "Key points", prefix: "Key point", items: sec.KeyPoints},
		{list: "Decisions", prefix: "Decision", items: sec.Decisions},
		{list: "Open questions", prefix: "Open question", items: sec.OpenQuestions},
		{list: "Action items", prefix: "Action item", items: actions},
	}
}
