package testutils

import (
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/papercomputeco/disrello/pkg/model"
)

// NewTestDocument builds a document exercising every modeled field.
func NewTestDocument() *model.Document {
	at := time.Date(2026, 2, 3, 4, 5, 6, 700, time.UTC)
	yes := true
	no := false
	cooldown := 1.5

	return &model.Document{Guilds: map[string]*model.GuildStore{
		"guild-1": {
			Members: map[string]*model.Member{
				"u1": {Name: "Sam", JoinedTS: at, LastSeenTS: at.Add(time.Hour), DefaultBoardID: "board_000000000001"},
			},
			Boards: []*model.Board{{
				ID:        "board_000000000001",
				Name:      "Sam — Inbox",
				CreatedBy: "u1",
				Lists: []*model.List{
					{ID: "list_000000000001", Name: "default", Cards: []*model.Card{}},
					{ID: "list_000000000002", Name: "Backlog", CreatedBy: "u1", Cards: []*model.Card{{
						ID:         "card_000000000001",
						Title:      "Fix bug",
						Desc:       "stack trace in #dev",
						Done:       true,
						Progress:   100,
						AssignedTo: "u1",
						Created:    at,
						CreatedBy:  "u2",
					}, {
						ID:         "card_000000000002",
						Title:      "Write docs",
						Progress:   40,
						AssignedTo: "u2",
						Created:    at,
						CreatedBy:  "u2",
					}}},
				},
			}},
			Summaries: []*model.Summary{{
				ID:        "sum_000000000001",
				ChannelID: "c1",
				AuthorID:  "u1",
				Created:   at,
				Keywords:  []string{"deploy", "friday"},
				Summary:   "Topic: deploy\nKey points:\n- ship friday",
			}},
			Settings: model.Settings{
				AutoCaptureTasksFromAI:        &yes,
				ForwardTodosFromOtherChannels: &no,
				AICooldownS:                   &cooldown,
			},
			AI:               model.AISettings{Provider: "ollama", Model: "phi3.5", RAMGB: 8},
			ChannelOverrides: map[string]string{"todo": "c9"},
		},
	}}
}

// DocumentDiff returns a human readable diff between two documents,
// treating nil and empty collections as equal.
func DocumentDiff(want, got *model.Document) string {
	return cmp.Diff(want, got, cmpopts.EquateEmpty())
}
