package parsing

import "strings"

// SummarySections is a summary reply split into its labeled parts.
type SummarySections struct {
	Topic         string
	KeyPoints     []string
	Decisions     []string
	OpenQuestions []string
}

// ParseSummarySections reads the strict summary format:
//
//	Topic: ...
//	Key points:
//	- ...
//	Decisions:
//	- ...
//	Open questions:
//	- ...
//
// Bullets reading "none" and lines outside a section are dropped.
func ParseSummarySections(summary string) SummarySections {
	var (
		out  SummarySections
		mode *[]string
	)
	for _, line := range strings.Split(summary, "\n") {
		s := strings.TrimSpace(line)
		if s == "" {
			continue
		}
		low := strings.ToLower(s)

		switch {
		case strings.HasPrefix(low, "topic:"):
			if topic := strings.TrimSpace(s[len("topic:"):]); topic != "" {
				out.Topic = topic
			}
			mode = nil
			continue
		case low == "key points:":
			mode = &out.KeyPoints
			continue
		case low == "decisions:":
			mode = &out.Decisions
			continue
		case low == "open questions:":
			mode = &out.OpenQuestions
			continue
		}

		if mode == nil {
			continue
		}
		if m := aiBulletRe.FindStringSubmatch(s); m != nil {
			if item := strings.TrimSpace(m[1]); item != "" && !strings.EqualFold(item, "none") {
				*mode = append(*mode, item)
			}
		}
	}
	return out
}

// DedupeFold drops case-insensitive duplicates and blanks, trimming the
// survivors and keeping first-seen order.
func DedupeFold(items []string) []string {
	trimmed := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			trimmed = append(trimmed, it)
		}
	}
	return dedupeFold(trimmed)
}
