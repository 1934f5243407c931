package model_test

import (
	"fmt"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/disrello/pkg/model"
)

var _ = Describe("GuildStore", func() {
	var (
		store *model.GuildStore
		now   time.Time
	)

	BeforeEach(func() {
		store = model.NewDocument().Guild("g1")
		now = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	})

	Describe("AddCardsToTodoInbox", func() {
		It("creates the TODO board with default and inbox lists", func() {
			ids := store.AddCardsToTodoInbox("TODO", "Inbox", "u1", []string{"buy milk", "call Sam"}, "#general / Sam", now)
			Expect(ids).To(HaveLen(2))

			b, ok := store.ResolveBoard("todo")
			Expect(ok).To(BeTrue())
			Expect(b.Lists).To(HaveLen(2))

			inbox, ok := b.ResolveList("inbox")
			Expect(ok).To(BeTrue())
			Expect(inbox.Cards[0].Title).To(Equal("buy milk"))
			Expect(inbox.Cards[0].Desc).To(Equal("Captured from: #general / Sam"))
			Expect(inbox.Cards[0].AssignedTo).To(Equal("u1"))
		})

		It("reuses the board on later captures", func() {
			store.AddCardsToTodoInbox("TODO", "Inbox", "u1", []string{"a"}, "s", now)
			store.AddCardsToTodoInbox("TODO", "Inbox", "u1", []string{"b"}, "s", now)
			Expect(store.Boards).To(HaveLen(1))
		})
	})

	Describe("CompleteCards", func() {
		It("marks only the listed cards done", func() {
			ids := store.AddCardsToTodoInbox("TODO", "Inbox", "u1", []string{"a", "b"}, "s", now)
			b, _ := store.ResolveBoard("TODO")
			done := b.CompleteCards(ids[:1])
			Expect(done).To(HaveLen(1))
			Expect(done[0].Card.ID).To(Equal(ids[0]))
			Expect(done[0].List.Name).To(Equal("Inbox"))
			_, first, _ := b.FindCard(ids[0])
			_, second, _ := b.FindCard(ids[1])
			Expect(first.Done).To(BeTrue())
			Expect(first.Progress).To(Equal(100))
			Expect(second.Done).To(BeFalse())
		})
	})

	Describe("StoreSummary", func() {
		It("caps keywords and text", func() {
			kw := make([]string, 30)
			for i := range kw {
				kw[i] = fmt.Sprintf("k%d", i)
			}
			id := store.StoreSummary("c1", "u1", strings.Repeat("s", 9000), kw, now)
			Expect(id).To(HavePrefix("sum_"))
			Expect(store.Summaries[0].Keywords).To(HaveLen(20))
			Expect(store.Summaries[0].Summary).To(HaveLen(model.MaxSummaryLen))
		})

		It("evicts the oldest entries past capacity", func() {
			var firstID string
			for i := 0; i < model.SummaryCapacity+5; i++ {
				id := store.StoreSummary("c1", "u1", fmt.Sprintf("summary %d", i), nil, now)
				if i == 0 {
					firstID = id
				}
			}
			Expect(store.Summaries).To(HaveLen(model.SummaryCapacity))
			Expect(store.Summaries[0].Summary).To(Equal("summary 5"))
			Expect(store.Summaries[0].ID).NotTo(Equal(firstID))
		})
	})

	Describe("ResolveCardAnywhere", func() {
		It("searches every board by id then title", func() {
			store.AddBoard("A", "")
			b := store.AddBoard("B", "")
			b.EnsureDefaultList().Cards = append(b.EnsureDefaultList().Cards, &model.Card{ID: "card_1", Title: "Ship it"})

			ref, ok := store.ResolveCardAnywhere("ship IT")
			Expect(ok).To(BeTrue())
			Expect(ref.Board).To(BeIdenticalTo(b))
			Expect(ref.Card.ID).To(Equal("card_1"))
		})
	})

	Describe("DeleteCardsAssignedTo", func() {
		It("removes only the user's cards", func() {
			b := store.AddBoard("B", "")
			l := b.EnsureDefaultList()
			l.Cards = []*model.Card{{ID: "card_1", AssignedTo: "u1"}, {ID: "card_2", AssignedTo: "u2"}, {ID: "card_3", AssignedTo: "u1"}}
			Expect(store.DeleteCardsAssignedTo("u1")).To(Equal(2))
			Expect(l.Cards).To(HaveLen(1))
			Expect(l.Cards[0].ID).To(Equal("card_2"))
		})
	})

	Describe("Normalize", func() {
		It("fills nil collections and repairs card state", func() {
			doc := &model.Document{Guilds: map[string]*model.GuildStore{
				"g": {
					Boards: []*model.Board{{ID: "board_1", Lists: []*model.List{{ID: "list_1", Cards: []*model.Card{
						{ID: "card_1", Done: true, Progress: 10},
						{ID: "card_2", Progress: 140},
					}}}}},
					AI: model.AISettings{RAMGB: 16},
				},
				"empty": nil,
			}}
			doc.Normalize()

			g := doc.Guilds["g"]
			Expect(g.Members).NotTo(BeNil())
			Expect(g.AI.RAMGB).To(Equal(model.DefaultRAMGB))
			cards := g.Boards[0].Lists[0].Cards
			Expect(cards[0].Progress).To(Equal(100))
			Expect(cards[1].Progress).To(Equal(100))
			Expect(cards[1].Done).To(BeTrue())
			Expect(doc.Guilds["empty"]).NotTo(BeNil())
		})

		It("does not create default lists", func() {
			doc := &model.Document{Guilds: map[string]*model.GuildStore{
				"g": {Boards: []*model.Board{{ID: "board_1", Name: "B"}}},
			}}
			doc.Normalize()
			Expect(doc.Guilds["g"].Boards[0].Lists).To(BeEmpty())
		})
	})
})
