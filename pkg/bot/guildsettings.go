package bot

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/papercomputeco/disrello/pkg/model"
	"github.com/papercomputeco/disrello/pkg/parsing"
)

// Guild settings keys that `!** setting set` may change.
const (
	SettingAutoCaptureTasksFromAI        = "auto_capture_tasks_from_ai"
	SettingForwardTodosFromOtherChannels = "forward_todos_from_other_channels"
	SettingAICooldownS                   = "ai_cooldown_s"
)

var safeSettingKeys = []string{
	SettingAICooldownS,
	SettingAutoCaptureTasksFromAI,
	SettingForwardTodosFromOtherChannels,
}

// channelOverrideHeads maps `!** <head> #channel` to its override key.
var channelOverrideHeads = map[string]ChannelRole{
	"todo_channel": RoleTodo,
	"ai_chat":      RoleAI,
	"sys_channel":  RoleSystem,
}

// handleGuildSettings serves channel overrides and `!** setting[s]`.
func (b *Bot) handleGuildSettings(t *turn) error {
	sc, ok := parsing.ParseSystemCommand(t.msg.Text)
	if !ok || sc.Head == "" {
		return nil
	}
	if role, ok := channelOverrideHeads[sc.Head]; ok {
		return t.setChannelOverride(sc, role)
	}
	if sc.Head != "setting" && sc.Head != "settings" {
		return nil
	}

	store, err := t.store()
	if err != nil {
		return err
	}
	if len(sc.Args) == 0 {
		t.say(settingsListing(store.Settings))
		return nil
	}
	if !strings.EqualFold(sc.Args[0], "set") {
		return usage("!** setting` or `!** setting set <key> <value>")
	}
	if len(sc.Args) < 3 {
		return usage("!** setting set <key> <value>")
	}

	key := strings.TrimSpace(sc.Args[1])
	if !slices.Contains(safeSettingKeys, key) {
		return invalid("Key not allowed. Allowed: " + strings.Join(safeSettingKeys, ", "))
	}
	shown, err := ApplyGuildSetting(&store.Settings, key, strings.Join(sc.Args[2:], " "))
	if err != nil {
		return err
	}
	t.touch()
	t.sayf("✅ Set `%s` = `%s`", key, shown)
	return nil
}

// ApplyGuildSetting validates raw for key and stores it in s. It returns
// the stored value as text.
func ApplyGuildSetting(s *model.Settings, key, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	switch key {
	case SettingAutoCaptureTasksFromAI, SettingForwardTodosFromOtherChannels:
		v, ok := model.ParseBool(raw)
		if !ok {
			return "", invalid("Value must be true/false.")
		}
		if key == SettingAutoCaptureTasksFromAI {
			s.AutoCaptureTasksFromAI = &v
		} else {
			s.ForwardTodosFromOtherChannels = &v
		}
		return strconv.FormatBool(v), nil
	case SettingAICooldownS:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return "", invalid("ai_cooldown_s must be a number.")
		}
		s.AICooldownS = &v
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	}
	return "", invalid("Key not allowed. Allowed: " + strings.Join(safeSettingKeys, ", "))
}

func settingsListing(s model.Settings) string {
	lines := []string{"**Guild settings (stored in JSON)**"}
	for _, k := range safeSettingKeys {
		lines = append(lines, fmt.Sprintf("- `%s` = `%s`", k, settingValue(s, k)))
	}
	lines = append(lines, "", "Use: `!** setting set <key> <value>`")
	return strings.Join(lines, "\n")
}

func settingValue(s model.Settings, key string) string {
	const unset = "(default)"
	switch key {
	case SettingAutoCaptureTasksFromAI:
		if s.AutoCaptureTasksFromAI != nil {
			return strconv.FormatBool(*s.AutoCaptureTasksFromAI)
		}
	case SettingForwardTodosFromOtherChannels:
		if s.ForwardTodosFromOtherChannels != nil {
			return strconv.FormatBool(*s.ForwardTodosFromOtherChannels)
		}
	case SettingAICooldownS:
		if s.AICooldownS != nil {
			return strconv.FormatFloat(*s.AICooldownS, 'g', -1, 64)
		}
	}
	return unset
}

// setChannelOverride stores a guild channel override from the first
// channel mention or a `<#id>` argument.
func (t *turn) setChannelOverride(sc parsing.SystemCommand, role ChannelRole) error {
	var id string
	switch {
	case len(t.msg.ChannelMentions) > 0:
		id = t.msg.ChannelMentions[0]
	case len(sc.Args) > 0:
		id = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(sc.Args[0]), "<#"), ">")
	}
	if id == "" {
		return usage(fmt.Sprintf("!** %s #channel", sc.Head))
	}

	store, err := t.store()
	if err != nil {
		return err
	}
	store.ChannelOverrides[string(role)] = id
	t.touch()
	t.sayf("✅ Set `%s` to <#%s>.", sc.Head, id)
	return nil
}
