package parsing

import "strings"

// Command is the closed set of bot commands the parser recognizes.
type Command int

const (
	CommandUnknown Command = iota
	CommandBoard
	CommandList
	CommandCard
	CommandBoards
	CommandLists
	CommandCards
	CommandRender
	CommandDelete
	CommandHelp
	CommandAI
	CommandSummarise
	CommandSearch
	CommandSettings
	CommandCreate
	CommandAdd
	CommandView
	CommandDone
)

var commandWords = map[string]Command{
	"board":     CommandBoard,
	"list":      CommandList,
	"card":      CommandCard,
	"boards":    CommandBoards,
	"lists":     CommandLists,
	"cards":     CommandCards,
	"render":    CommandRender,
	"delete":    CommandDelete,
	"help":      CommandHelp,
	"ai":        CommandAI,
	"summarise": CommandSummarise,
	"summarize": CommandSummarise,
	"search":    CommandSearch,
	"setting":   CommandSettings,
	"settings":  CommandSettings,
	"create":    CommandCreate,
	"add":       CommandAdd,
	"view":      CommandView,
	"done":      CommandDone,
}

// ParseCommand maps a command word to its Command.
func ParseCommand(word string) Command {
	return commandWords[strings.ToLower(word)]
}

func (c Command) String() string {
	switch c {
	case CommandBoard:
		return "board"
	case CommandList:
		return "list"
	case CommandCard:
		return "card"
	case CommandBoards:
		return "boards"
	case CommandLists:
		return "lists"
	case CommandCards:
		return "cards"
	case CommandRender:
		return "render"
	case CommandDelete:
		return "delete"
	case CommandHelp:
		return "help"
	case CommandAI:
		return "ai"
	case CommandSummarise:
		return "summarise"
	case CommandSearch:
		return "search"
	case CommandSettings:
		return "settings"
	case CommandCreate:
		return "create"
	case CommandAdd:
		return "add"
	case CommandView:
		return "view"
	case CommandDone:
		return "done"
	default:
		return "unknown"
	}
}

// IsEntity reports whether c takes an action keyword in shortcut form.
func (c Command) IsEntity() bool {
	return c == CommandBoard || c == CommandList || c == CommandCard
}

// Action is the closed set of command actions.
type Action int

const (
	ActionUnknown Action = iota
	ActionShortcut
	ActionCreate
	ActionView
	ActionList
	ActionDone
	ActionToggle
	ActionProgress
	ActionDelete
)

var actionWords = map[string]Action{
	"shortcut": ActionShortcut,
	"create":   ActionCreate,
	"view":     ActionView,
	"list":     ActionList,
	"done":     ActionDone,
	"toggle":   ActionToggle,
	"progress": ActionProgress,
	"delete":   ActionDelete,
}

// ParseAction maps an action word to its Action.
func ParseAction(word string) Action {
	return actionWords[strings.ToLower(word)]
}

func (a Action) String() string {
	switch a {
	case ActionShortcut:
		return "shortcut"
	case ActionCreate:
		return "create"
	case ActionView:
		return "view"
	case ActionList:
		return "list"
	case ActionDone:
		return "done"
	case ActionToggle:
		return "toggle"
	case ActionProgress:
		return "progress"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// shortcutActions are the action keywords a shortcut may lead with.
var shortcutActions = map[string]Action{
	"create": ActionCreate,
	"view":   ActionView,
	"list":   ActionList,
	"done":   ActionDone,
}

var fusedCommands = map[string]struct {
	cmd    Command
	action Action
}{
	"boardscreate": {CommandBoard, ActionCreate},
	"listscreate":  {CommandList, ActionCreate},
	"cardscreate":  {CommandCard, ActionCreate},
}
