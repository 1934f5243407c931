package bot

import (
	"fmt"
	"strings"

	"github.com/papercomputeco/disrello/pkg/model"
	"github.com/papercomputeco/disrello/pkg/utils"
)

// ViewKind names the structured layout of a reply.
type ViewKind string

const (
	ViewBoard   ViewKind = "board"
	ViewList    ViewKind = "list"
	ViewCard    ViewKind = "card"
	ViewRender  ViewKind = "render"
	ViewSearch  ViewKind = "search"
	ViewHelp    ViewKind = "help"
	ViewConfirm ViewKind = "confirm"
	ViewCapture ViewKind = "capture"
	ViewDraft   ViewKind = "draft"
)

// maxFieldLen and maxTextLen bound what a single chat message can carry.
const (
	maxFieldLen = 1024
	maxTextLen  = 1900
)

// View is a platform-neutral rich message: a title, a body and named
// fields. Adapters render it however their platform allows.
type View struct {
	Kind        ViewKind `json:"kind"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Fields      []Field  `json:"fields,omitempty"`
	Footer      string   `json:"footer,omitempty"`
}

// Field is a labeled section of a View.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

func (v *View) add(name, value string, inline bool) {
	v.Fields = append(v.Fields, Field{Name: name, Value: utils.Clip(value, maxFieldLen), Inline: inline})
}

// Markdown renders the view as a markdown document.
func (v *View) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", v.Title)
	if v.Description != "" {
		b.WriteString(v.Description)
		b.WriteString("\n\n")
	}
	for _, f := range v.Fields {
		fmt.Fprintf(&b, "**%s**\n\n%s\n\n", f.Name, f.Value)
	}
	if v.Footer != "" {
		fmt.Fprintf(&b, "_%s_\n", v.Footer)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func channelMention(id string) string {
	if id == "" {
		return "(not configured)"
	}
	return "<#" + id + ">"
}

func boardView(b *model.Board) *View {
	b.EnsureDefaultList()
	v := &View{
		Kind:        ViewBoard,
		Title:       "📋 " + b.Name,
		Description: fmt.Sprintf("Board ID: `%s`\nLists: **%d**", b.ID, len(b.Lists)),
	}
	lines := make([]string, 0, len(b.Lists))
	for i, l := range b.Lists {
		if i == 20 {
			break
		}
		lines = append(lines, fmt.Sprintf("• **%s** (`%s`) — %d cards", l.Name, l.ID, len(l.Cards)))
	}
	if len(lines) > 0 {
		v.add("Lists", strings.Join(lines, "\n"), false)
	}
	return v
}

func listView(b *model.Board, l *model.List) *View {
	v := &View{
		Kind:  ViewList,
		Title: "🗂️ " + l.Name,
		Description: fmt.Sprintf("Board: **%s** (`%s`)\nList ID: `%s`\nCards: **%d**",
			b.Name, b.ID, l.ID, len(l.Cards)),
	}
	if len(l.Cards) == 0 {
		v.add("Cards", "*None*", false)
		return v
	}
	lines := make([]string, 0, len(l.Cards))
	for i, c := range l.Cards {
		if i == 15 {
			break
		}
		lines = append(lines, fmt.Sprintf("%s `%s` — **%s** (%d%%)", statusIcon(c), c.ID, c.Title, c.Progress))
	}
	v.add("Cards", strings.Join(lines, "\n"), false)
	return v
}

func cardView(b *model.Board, l *model.List, c *model.Card) *View {
	desc := c.Desc
	if desc == "" {
		desc = "*No description*"
	}
	status := "⏳ Open"
	if c.Done {
		status = "✅ Done"
	}
	v := &View{
		Kind:        ViewCard,
		Title:       c.Title,
		Description: desc,
		Footer:      "Card ID: " + c.ID,
	}
	v.add("Board", fmt.Sprintf("%s (`%s`)", b.Name, b.ID), false)
	v.add("List", fmt.Sprintf("%s (`%s`)", l.Name, l.ID), false)
	v.add("Status", status, true)
	v.add("Progress", fmt.Sprintf("%d%%", c.Progress), true)
	if c.AssignedTo != "" {
		v.add("Assigned", "<@"+c.AssignedTo+">", true)
	}
	return v
}

// renderViews is a header followed by one view per list.
func renderViews(b *model.Board) []*View {
	b.EnsureDefaultList()
	views := []*View{{
		Kind:        ViewRender,
		Title:       "🧾 Render: " + b.Name,
		Description: fmt.Sprintf("Board ID: `%s`", b.ID),
	}}
	for _, l := range b.Lists {
		views = append(views, listView(b, l))
	}
	return views
}

func statusIcon(c *model.Card) string {
	if c.Done {
		return "✅"
	}
	return "⏳"
}

func helpView(aiChannel, todoChannel string) *View {
	v := &View{
		Kind:        ViewHelp,
		Title:       "Disrello — AI Commands",
		Description: "Use quotes for names with spaces. Use `!**help` for system/admin controls.",
	}
	v.add("AI chat", strings.Join([]string{
		"• Always-on chat: " + channelMention(aiChannel),
		"• Other channels: `!ai <message>` or @mention the bot",
		"• Taskify: `!ai make that a task` → `!ai 1` (optional) → `!ai make it a card`",
		"• Summarise: `!summarise` / `!summarise(list) \"Board\" [List]`",
		"• Search: `!search <query>` (filters: `assigned:me`, `from:me`)",
	}, "\n"), false)
	v.add("Boards / lists / cards", strings.Join([]string{
		"• Help: `!help`  (system/admin: `!** help`)",
		"• Render: `!render \"Board\"` / `!render boards` / `!render lists` / `!render cards`",
		"• Boards: `!board` / `!board create \"Name\"` / `!board(view) \"NameOrId\"` / `!boardscreate \"Name\"`",
		"• Lists (view): `!board list \"Board\"` or `!board(list) \"Board\" [List]`",
		"• Create list: `!list create \"Board\" \"List\"`  OR  shorthand: `!list \"List\"` (your personal inbox)",
		"• Create card: `!card create \"Board\" \"List\" \"Title\" (\"Desc\")`",
		"  - shorthand: `!card create \"Title\"` (your personal inbox)",
		"• Update: `!card(done) \"Board\" card_id true` / `!card(toggle)` / `!card(progress) \"Board\" card_id 50`",
		"• Delete: `!delete card <CardNameOrId>` / `!delete list <ListNameOrId>` / `!delete board <BoardNameOrId>` / `!delete all`",
	}, "\n"), false)
	v.add("TODO capture", strings.Join([]string{
		"• Checkbox: `- [ ] something` or `TODO: something`",
		"• Intent (asks to confirm): `remind me to ...`, `I need to ...`, `add a task: ...`",
	}, "\n"), false)
	v.add("Tips", "• TODO channel: "+channelMention(todoChannel)+"\n• Use IDs when names collide.", false)
	return v
}

func systemHelpView(aiChannel, todoChannel string) *View {
	v := &View{
		Kind:        ViewHelp,
		Title:       "Disrello — System Commands",
		Description: "These are admin/system controls (prefix `!**`).",
		Footer:      "Settings: `!** setting` / `!** setting set <key> <value>`",
	}
	v.add("AI system controls", strings.Join([]string{
		"• `!** ai status`",
		"• `!** ai providers`",
		"• `!** ai provider set <ollama|openai>`",
		"• `!** ai models`",
		"• `!** ai model` / `!** ai model set <name>` / `!** ai model auto`",
		"• `!** ai ram` / `!** ai ram 2` / `!** ai ram 4` / `!** ai ram 8`",
	}, "\n"), false)
	v.add("Channels", "• AI listen channel: "+channelMention(aiChannel)+"\n• TODO channel: "+channelMention(todoChannel), false)
	v.add("Channel overrides", strings.Join([]string{
		"• `!** todo_channel #channel` (set TODO destination)",
		"• `!** ai_chat #channel` (set AI listen channel)",
		"• `!** sys_channel #channel` (set system/admin channel)",
	}, "\n"), false)
	v.add("Search", "• `!** search <text>` (filters: `assigned:me`, `from:me`)", false)
	return v
}

func confirmView(items []string) *View {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, "• "+it)
	}
	return &View{
		Kind:  ViewConfirm,
		Title: "Create TODO card(s)?",
		Description: "I think you meant to create these task(s):\n" +
			utils.Clip(strings.Join(lines, "\n"), 900) +
			"\n\nReply **yes** to confirm or **no** to cancel.",
	}
}

func captureView(items, cardIDs []string, source, authorID, boardName, inboxName string) *View {
	v := &View{
		Kind:        ViewCapture,
		Title:       "🧠→🗂️ Captured tasks",
		Description: fmt.Sprintf("Source: %s\nAssignee: <@%s>\nReact ✅ to mark **all** done.", source, authorID),
		Footer:      fmt.Sprintf("TODO Board: %q → %q", boardName, inboxName),
	}
	lines := make([]string, 0, len(items))
	for i, it := range items {
		if i >= len(cardIDs) {
			break
		}
		lines = append(lines, fmt.Sprintf("⏳ **%s**\n`%s`", it, cardIDs[i]))
	}
	body := strings.Join(lines, "\n\n")
	if body == "" {
		body = "*None*"
	}
	v.add("Cards", body, false)
	return v
}

func draftView(tasks []string) *View {
	lines := make([]string, 0, len(tasks))
	for i, t := range tasks {
		if i == 10 {
			break
		}
		lines = append(lines, fmt.Sprintf("**%d)** %s", i+1, t))
	}
	return &View{
		Kind:        ViewDraft,
		Title:       "📝 Draft tasks from recent chat",
		Description: strings.Join(lines, "\n"),
		Footer:      "Use `!ai 1` to pick one, or `!ai make it a card` to create TODO card(s).",
	}
}
