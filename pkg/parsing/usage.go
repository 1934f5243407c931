package parsing

import "strings"

// Usage strings shown when a command is malformed.
const (
	UsageCardsCreate  = "!cardscreate <BoardNameOrId> [List] \"Card name\" \"Description\""
	UsageListsCreate  = "!listscreate <BoardNameOrId> \"List name\""
	UsageBoardsCreate = "!boardscreate \"Board name\""
	UsageDelete       = "!delete card <CardNameOrId>` or `!delete list <ListNameOrId>` or `!delete board <BoardNameOrId>` or `!delete all"
	UsageRender       = "!render \"BoardRef\"` or `!render boards|lists|cards"
)

var usagePrefixes = []struct {
	prefix string
	usage  string
}{
	{"!cardscreate", UsageCardsCreate},
	{"!listscreate", UsageListsCreate},
	{"!boardscreate", UsageBoardsCreate},
	{"!delete", UsageDelete},
	{"!render", UsageRender},
}

// UsageHint returns the usage line for a command that failed to parse but
// starts with a known legacy prefix.
func UsageHint(text string) (string, bool) {
	low := strings.ToLower(strings.TrimSpace(text))
	for _, u := range usagePrefixes {
		if strings.HasPrefix(low, u.prefix) {
			return u.usage, true
		}
	}
	return "", false
}
