package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/papercomputeco/disrello/pkg/burst"
	"github.com/papercomputeco/disrello/pkg/eventstream"
	"github.com/papercomputeco/disrello/pkg/llm/provider"
	"github.com/papercomputeco/disrello/pkg/llm/ramlimit"
	"github.com/papercomputeco/disrello/pkg/llm/router"
	"github.com/papercomputeco/disrello/pkg/model"
	"github.com/papercomputeco/disrello/pkg/parsing"
	"github.com/papercomputeco/disrello/pkg/utils"
)

const (
	aiPrefix = "!ai"

	maxModelsShown = 25
	maxDraftTasks  = 20
	maxAutoCapture = 8
)

// Words that used to be normal AI prompts and now live under `!** ai`.
var systemOnlyWords = map[string]bool{
	"ram":       true,
	"status":    true,
	"current":   true,
	"providers": true,
	"provider":  true,
	"model":     true,
	"models":    true,
}

// handleAI serves `!** ai ...` controls and the normal AI triggers.
func (b *Bot) handleAI(t *turn) error {
	if sc, ok := parsing.ParseSystemCommand(t.msg.Text); ok {
		if sc.Head != "ai" {
			return nil
		}
		return t.aiSystemControls(sc.Args)
	}

	prompt, ok, err := t.aiPrompt()
	if err != nil || !ok {
		return err
	}

	store, err := t.store()
	if err != nil {
		return err
	}
	if !b.state.cooledDown(t.channelKey(), t.now, aiCooldown(store, t.settings)) {
		return nil
	}

	providerName, modelName := t.settings.Policy.Effective(store.AI)
	picked := ""
	if strings.TrimSpace(store.AI.Model) == "" && t.settings.Policy.PreferSmallModels {
		if picked = t.autoPickModel(store, providerName); picked != "" {
			modelName = picked
		}
	}

	err = t.respond(store, prompt, providerName, modelName)
	if picked != "" && !isProviderFailure(err) {
		store.AI.Model = picked
		t.touch()
	}
	return err
}

func (t *turn) respond(store *model.GuildStore, prompt, providerName, modelName string) error {
	if handled, err := t.taskifyFlow(prompt, providerName, modelName); handled || err != nil {
		return err
	}
	if handled, err := t.fastDelete(store, prompt); handled || err != nil {
		return err
	}

	if words := strings.Fields(prompt); len(words) > 0 && systemOnlyWords[strings.ToLower(words[0])] {
		t.say("ℹ️ System controls moved to `!** ai ...` (example: `!** ai status`).")
		return nil
	}

	return t.chat(store, prompt, providerName, modelName)
}

// aiPrompt reports whether the message addresses the AI and returns the
// prompt with the trigger removed.
func (t *turn) aiPrompt() (string, bool, error) {
	text := t.msg.Text

	store, err := t.store()
	if err != nil {
		return "", false, err
	}
	if ai, ok := t.channel(store, RoleAI); ok && ai == t.msg.ChannelID {
		if parsing.IsCommand(text) {
			return "", false, nil
		}
		return text, true, nil
	}

	if hasAIPrefix(text) {
		prompt := strings.TrimSpace(text[len(aiPrefix):])
		if prompt == "" {
			return "", false, usage("!ai <prompt>")
		}
		return prompt, true, nil
	}

	if t.msg.mentionsBot() {
		return t.msg.withoutBotMention(text), true, nil
	}
	return "", false, nil
}

func hasAIPrefix(text string) bool {
	if len(text) < len(aiPrefix) || !strings.EqualFold(text[:len(aiPrefix)], aiPrefix) {
		return false
	}
	rest := text[len(aiPrefix):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\n'
}

func aiCooldown(store *model.GuildStore, s *Settings) time.Duration {
	if v := store.Settings.AICooldownS; v != nil {
		return time.Duration(*v * float64(time.Second))
	}
	return s.AICooldown
}

func autoCapture(store *model.GuildStore, s *Settings) bool {
	if v := store.Settings.AutoCaptureTasksFromAI; v != nil {
		return *v
	}
	return s.AutoCaptureTasksFromAI
}

// autoPickModel returns the first preferred small model the provider serves,
// or "" when none fits or listing fails. The caller stores the pick once the
// provider has answered.
func (t *turn) autoPickModel(store *model.GuildStore, providerName string) string {
	ctx, cancel := t.llmContext(providerName)
	defer cancel()

	available, err := t.bot.generator.ListModels(ctx, providerName)
	if err != nil {
		t.bot.logger.Debug("model auto-pick skipped", "provider", providerName, "error", err)
		return ""
	}
	picked, ok := t.settings.Policy.ChooseSmallModel(providerName, available, model.NormalizeRAMGB(store.AI.RAMGB))
	if !ok {
		return ""
	}
	return picked
}

// taskifyFlow handles "make that a task", draft picks and "make it a card".
func (t *turn) taskifyFlow(prompt, providerName, modelName string) (bool, error) {
	switch {
	case parsing.IsMakeTask(prompt):
		return true, t.taskify(providerName, modelName)
	case parsing.IsMakeCard(prompt):
		return true, t.draftToCards()
	}

	idx, ok := parsing.PickIndex(prompt)
	if !ok {
		return false, nil
	}
	d := t.bot.state.getDraft(t.userKey(), t.now, t.settings.PendingTTL)
	if d == nil || len(d.tasks) == 0 {
		return false, nil
	}
	if idx < 1 || idx > len(d.tasks) {
		return true, invalid(fmt.Sprintf("Pick 1-%d.", len(d.tasks)))
	}
	chosen := strings.TrimSpace(d.tasks[idx-1])
	t.bot.state.setDraft(t.userKey(), &draft{tasks: []string{chosen}, source: d.source, at: d.at})
	t.sayf("✅ Selected:\n1) %s\nNow run `!ai make it a card`.", chosen)
	return true, nil
}

func (t *turn) taskify(providerName, modelName string) error {
	entries := t.bot.memory.Entries(t.memoryKey())
	picked := burst.Select(entries, t.now, t.settings.Taskify.ForTaskify())
	if len(picked) == 0 {
		return invalid("Not enough recent chat to taskify (yet).")
	}
	conv := burst.Render(picked, t.displayName)
	if strings.TrimSpace(conv) == "" {
		return invalid("Nothing to taskify.")
	}

	ctx, cancel := t.llmContext(providerName)
	defer cancel()
	out, err := t.bot.generator.Generate(ctx, router.Taskify(providerName, modelName, conv))
	if err != nil {
		return providerFailure(err)
	}

	tasks := parsing.ExtractTasksFromAIReply(out)
	if len(tasks) == 0 {
		return invalid("No clear tasks found.")
	}
	if len(tasks) > maxDraftTasks {
		tasks = tasks[:maxDraftTasks]
	}

	source := fmt.Sprintf("Taskified from <#%s> (~%d msgs / %ds) by %s",
		t.msg.ChannelID, len(picked), int(burst.Span(picked).Seconds()), t.msg.Author().DisplayName())
	t.bot.state.setDraft(t.userKey(), &draft{tasks: tasks, source: source, at: t.now})
	t.show(draftView(tasks))
	t.bot.state.markAI(t.channelKey(), t.now)
	return nil
}

func (t *turn) draftToCards() error {
	d := t.bot.state.getDraft(t.userKey(), t.now, t.settings.PendingTTL)
	if d == nil || len(d.tasks) == 0 {
		return invalid("No draft tasks. Use `!ai make that a task` first.")
	}
	tasks := d.tasks
	if len(tasks) > maxDraftTasks {
		tasks = tasks[:maxDraftTasks]
	}
	source := d.source
	if source == "" {
		source = fmt.Sprintf("<#%s> / %s", t.msg.ChannelID, t.msg.Author().DisplayName())
	}

	if err := t.postTodoCards(tasks, source); err != nil {
		return err
	}
	t.bot.state.dropDraft(t.userKey())

	store, err := t.store()
	if err != nil {
		return err
	}
	todo, _ := t.channel(store, RoleTodo)
	t.sayf("✅ Created **%d** card(s) in %s.", len(tasks), channelMention(todo))
	return nil
}

// fastDelete removes a card from the TODO board for "delete card card_x".
func (t *turn) fastDelete(store *model.GuildStore, prompt string) (bool, error) {
	id, ok := parsing.AIDeleteTarget(prompt)
	if !ok {
		return false, nil
	}
	board, ok := store.ResolveBoard(t.settings.TodoBoardName)
	if !ok {
		return true, notFound("TODO board not found.")
	}
	ref, ok := cardByID(board, id)
	if !ok {
		return true, notFound("Card not found.")
	}
	if !t.canDelete(ref.Card) {
		return true, denied(deniedCardDelete)
	}
	board.DeleteCard(ref.Card.ID)
	t.touch()
	t.emitCard(eventstream.EventTypeCardDeleted, ref)
	t.say("🗑️ Deleted.")
	return true, nil
}

// chat answers prompt with recent channel lines as context and offers any
// bullet tasks in the reply for capture.
func (t *turn) chat(store *model.GuildStore, prompt, providerName, modelName string) error {
	recent := t.bot.memory.Recent(t.memoryKey(), t.settings.ContextMessages)
	lines := make([]string, 0, len(recent))
	for _, e := range recent {
		lines = append(lines, e.Text)
	}

	ctx, cancel := t.llmContext(providerName)
	defer cancel()
	reply, err := t.bot.generator.Generate(ctx, router.Chat(providerName, modelName, t.settings.Temperature, prompt, lines))
	t.bot.state.markAI(t.channelKey(), t.now)
	if err != nil {
		t.bot.logger.Warn("ai chat failed", "provider", providerName, "model", modelName, "error", err)
		return providerFailure(err)
	}

	reply = strings.TrimSpace(reply)
	if reply != "" {
		t.say(utils.Clip(reply, maxTextLen))
	}

	if !autoCapture(store, t.settings) {
		return nil
	}
	if tasks := parsing.ExtractTasksFromAIReply(reply); len(tasks) > 0 {
		if len(tasks) > maxAutoCapture {
			tasks = tasks[:maxAutoCapture]
		}
		t.offerConfirm(tasks, fmt.Sprintf("AI in <#%s> / %s", t.msg.ChannelID, t.msg.Author().DisplayName()))
	}
	return nil
}

// aiSystemControls serves `!** ai <head> ...`.
func (t *turn) aiSystemControls(args []string) error {
	store, err := t.store()
	if err != nil {
		return err
	}
	head := "help"
	if len(args) > 0 {
		head = strings.ToLower(args[0])
	}
	ram := model.NormalizeRAMGB(store.AI.RAMGB)
	providerName, modelName := t.settings.Policy.Effective(store.AI)
	supported := provider.SupportedProviders()

	switch head {
	case "help", "?":
		t.say("**System AI controls (`!** ai ...`)**\n" +
			"• `!** ai status`\n" +
			"• `!** ai providers`\n" +
			"• `!** ai provider set <ollama|openai>`\n" +
			"• `!** ai model` / `!** ai model set <name>` / `!** ai model auto`\n" +
			"• `!** ai models`\n" +
			"• `!** ai ram` / `!** ai ram 2` / `!** ai ram 4` / `!** ai ram 8`\n" +
			"\n" +
			"**Normal AI** remains: `!ai ...` (and AI listen channel).")
		return nil

	case "status", "current":
		t.sayf("**AI status**\n"+
			"• Provider: `%s`\n"+
			"• Model: `%s`\n"+
			"• RAM cap: `%dGB` (max `%dGB`)\n"+
			"• Normal chat: `!ai ...` / AI listen channel\n"+
			"• System controls: `!** ai ...`",
			providerName, modelName, ram, model.MaxRAMGB)
		return nil

	case "providers", "provider":
		if head == "providers" || len(args) == 1 {
			t.sayf("**LLM provider**: `%s`\nSupported: %s\nSet: `!** ai provider set <%s>`",
				providerName, strings.Join(supported, ", "), strings.Join(supported, "|"))
			return nil
		}
		if len(args) < 3 || !strings.EqualFold(args[1], "set") {
			return usage("!** ai provider set <" + strings.Join(supported, "|") + ">")
		}
		next := strings.ToLower(strings.TrimSpace(args[2]))
		if !provider.IsSupported(next) {
			return invalid("Unknown provider. Supported: " + strings.Join(supported, ", "))
		}
		store.AI.Provider = next
		store.AI.Model = ""
		t.touch()
		t.sayf("✅ Provider set to `%s` (model cleared; use `!** ai models`).", next)
		return nil

	case "model", "models":
		if head == "model" {
			switch {
			case len(args) == 1:
				t.sayf("**Provider:** `%s`\n**Model:** `%s`\nSet: `!** ai model set <name>`", providerName, modelName)
				return nil
			case strings.EqualFold(args[1], "set"):
				return t.setModel(store, args[2:], providerName, ram)
			case len(args) == 2 && (strings.EqualFold(args[1], "auto") || strings.EqualFold(args[1], "small")):
				store.AI.Model = ""
				t.touch()
				t.say("✅ Model cleared. Run `!** ai models` to auto-pick a small one.")
				return nil
			}
		}
		return t.listModels(store, providerName, modelName, ram)

	case "ram":
		if len(args) == 1 {
			t.sayf("**Local model RAM limit**\n"+
				"• Current: `%dGB`\n"+
				"• Set: `!** ai ram 2` or `!** ai ram 4` or `!** ai ram 8`\n"+
				"• Max: `%dGB`", ram, model.MaxRAMGB)
			return nil
		}
		wanted, err := strconv.Atoi(args[1])
		if err != nil {
			return usage("!** ai ram 2` or `!** ai ram 4` or `!** ai ram 8")
		}
		if !ramlimit.IsAllowed(wanted) {
			return invalid("RAM must be 2, 4, or 8 (no higher).")
		}
		store.AI.RAMGB = wanted
		store.AI.Model = ""
		t.touch()
		t.sayf("✅ RAM limit set to `%dGB`. Run `!** ai models` to pick a model.", wanted)
		return nil
	}

	return invalid("Unknown system command. Try `!** ai help`.")
}

func (t *turn) setModel(store *model.GuildStore, words []string, providerName string, ram int) error {
	next := strings.TrimSpace(strings.Join(words, " "))
	if next == "" {
		return usage("!** ai model set <model_name>")
	}
	if providerName == provider.Ollama && !ramlimit.Fits(next, ram) {
		estimate := "unknown size"
		if gb, ok := ramlimit.Estimate(next); ok {
			estimate = fmt.Sprintf("~%gGB", gb)
		}
		return invalid(fmt.Sprintf("`%s` is not allowed under the current RAM cap (`%dGB`).\n"+
			"Estimated: %s\n"+
			"Use: `!** ai ram 8` (max) or pick a smaller model.", next, ram, estimate))
	}
	store.AI.Model = next
	t.touch()
	t.sayf("✅ Model set to `%s` for provider `%s`.", next, providerName)
	return nil
}

func (t *turn) listModels(store *model.GuildStore, providerName, modelName string, ram int) error {
	ctx, cancel := t.llmContext(providerName)
	defer cancel()
	models, err := t.bot.generator.ListModels(ctx, providerName)
	if err != nil {
		t.sayf("⚠️ Model list error (%s): %v", providerName, err)
		return nil
	}
	if len(models) == 0 {
		return notFound(fmt.Sprintf("No models found for `%s`.", providerName))
	}

	if strings.TrimSpace(store.AI.Model) == "" {
		if picked, ok := t.settings.Policy.ChooseSmallModel(providerName, models, ram); ok {
			store.AI.Model = picked
			t.touch()
			providerName, modelName = t.settings.Policy.Effective(store.AI)
		}
	}

	lines := []string{
		fmt.Sprintf("**Provider:** `%s`", providerName),
		fmt.Sprintf("**Current model:** `%s`", modelName),
		"",
		fmt.Sprintf("**Available (top %d):**", maxModelsShown),
	}
	for i, m := range models {
		if i == maxModelsShown {
			lines = append(lines, fmt.Sprintf("… +%d more", len(models)-maxModelsShown))
			break
		}
		lines = append(lines, "- `"+m+"`")
	}
	lines = append(lines, "", "Set: `!** ai model set <name>` | Auto-pick: `!** ai model auto`")
	t.say(utils.Clip(strings.Join(lines, "\n"), maxTextLen))
	return nil
}
