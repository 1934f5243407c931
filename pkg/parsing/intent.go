package parsing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/papercomputeco/disrello/pkg/utils"
)

// MaxItemLen caps extracted task text.
const MaxItemLen = 200

// MaxAITasks caps how many tasks are read from one AI reply.
const MaxAITasks = 20

var (
	todoCheckboxRe = regexp.MustCompile(`(?i)^\s*-\s*\[\s*\]\s+(.+?)\s*$`)
	todoColonRe    = regexp.MustCompile(`(?im)\bTODO:\s*(.+)$`)

	aiBulletRe = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+(.+?)\s*$`)
	aiDeleteRe = regexp.MustCompile(`(?i)\bdelete\s+(?:task|todo|card)\s+(card_[0-9a-f]+)\b`)

	taskAfterRe = regexp.MustCompile(`(?i)\b(?:add|create|make|log|track|capture)\b\s+(?:a\s+)?(?:task|todo|card)\b\s*[:\-–]?\s*(.+)$`)
	remindMeRe  = regexp.MustCompile(`(?i)\bremind\s+me\s+to\s+(.+)$`)
	iNeedToRe   = regexp.MustCompile(`(?i)\b(?:i\s+need\s+to|i\s+have\s+to|i\s+should)\s+(.+)$`)

	yesRe = regexp.MustCompile(`(?i)^\s*!?(?:yes|y|yeah|yep|ok|okay|confirm|do\s+it)\s*$`)
	noRe  = regexp.MustCompile(`(?i)^\s*!?(?:no|n|nah|nope|cancel|stop)\s*$`)

	makeTaskRe = regexp.MustCompile(`(?i)\bmake\s+(?:that|this|it)\s+(?:into\s+)?a\s+task\b`)
	makeCardRe = regexp.MustCompile(`(?i)\bmake\s+(?:that|this|it)\s+(?:into\s+)?a\s+card\b`)
	pickRe     = regexp.MustCompile(`(?i)^\s*(?:pick\s+)?(\d{1,2})\s*$`)
)

// ExtractTodos returns the checkbox (`- [ ] item`) and `TODO: item` entries
// of text, deduplicated case-insensitively in first-seen order.
func ExtractTodos(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		if m := todoCheckboxRe.FindStringSubmatch(strings.TrimSuffix(line, "\r")); m != nil {
			if it := strings.TrimSpace(m[1]); it != "" {
				items = append(items, it)
			}
		}
	}
	for _, m := range todoColonRe.FindAllStringSubmatch(text, -1) {
		if it := strings.TrimSpace(m[1]); it != "" {
			items = append(items, it)
		}
	}
	return dedupeFold(items)
}

// ExtractTaskIntent detects a single casual task phrase such as "remind me
// to ..." or "I need to ...". The result needs the author's confirmation
// before it becomes a card.
func ExtractTaskIntent(text string) (string, bool) {
	c := strings.TrimSpace(text)
	for _, re := range []*regexp.Regexp{taskAfterRe, remindMeRe, iNeedToRe} {
		m := re.FindStringSubmatch(c)
		if m == nil {
			continue
		}
		if it := strings.TrimSpace(m[1]); it != "" {
			return utils.Clip(it, MaxItemLen), true
		}
	}
	return "", false
}

// ExtractTasksFromAIReply reads the bullet lines of an LLM reply as tasks.
// The "no clear tasks" sentinel is skipped.
func ExtractTasksFromAIReply(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		m := aiBulletRe.FindStringSubmatch(strings.TrimSuffix(line, "\r"))
		if m == nil {
			continue
		}
		t := strings.TrimSpace(m[1])
		if t == "" || strings.EqualFold(t, "no clear tasks") {
			continue
		}
		out = append(out, utils.Clip(t, MaxItemLen))
		if len(out) == MaxAITasks {
			break
		}
	}
	return out
}

// IsYes reports whether text confirms a pending candidate.
func IsYes(text string) bool { return yesRe.MatchString(text) }

// IsNo reports whether text rejects a pending candidate.
func IsNo(text string) bool { return noRe.MatchString(text) }

// AIDeleteTarget returns the card id of a "delete card card_x" request.
func AIDeleteTarget(text string) (string, bool) {
	m := aiDeleteRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsMakeTask matches "make that a task" and its variants.
func IsMakeTask(text string) bool { return makeTaskRe.MatchString(text) }

// IsMakeCard matches "make it a card" and its variants.
func IsMakeCard(text string) bool { return makeCardRe.MatchString(text) }

// PickIndex parses a draft pick such as "2" or "pick 2".
func PickIndex(text string) (int, bool) {
	m := pickRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

func dedupeFold(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		k := strings.ToLower(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}
