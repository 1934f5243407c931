package bot_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/disrello/pkg/bot"
)

var _ = Describe("Search", func() {
	var h *harness

	BeforeEach(func() {
		h = newHarness()
		h.send("u1", `!card create "Buy milk"`)
		h.send("u2", `!card create "Roadmap" "Doing" "Ship it" "milk the release"`)
	})

	It("finds cards by title and description", func() {
		replies := h.send("u1", "!** search MILK")
		found := views(replies, bot.ViewSearch)
		Expect(found).To(HaveLen(1))
		Expect(found[0].Description).To(Equal("Query: `MILK`"))
		Expect(found[0].Fields[0].Name).To(Equal("Cards (2)"))
		Expect(found[0].Fields[1].Name).To(Equal("Summaries (0)"))
		Expect(found[0].Fields[1].Value).To(Equal("*No matching summaries*"))
	})

	It("accepts the short form", func() {
		found := views(h.send("u1", "!search ship"), bot.ViewSearch)
		Expect(found).To(HaveLen(1))
		Expect(found[0].Fields[0].Value).To(ContainSubstring("**Ship it** (board: Roadmap, list: Doing)"))
	})

	It("asks for a query", func() {
		Expect(texts(h.send("u1", "!search"))).To(ConsistOf("❌ Usage: `!** search <text>` (optional: `assigned:me`, `from:me`)"))
	})

	It("does not answer other words starting with !search", func() {
		Expect(h.send("u1", "!searching for milk")).To(BeEmpty())
	})

	It("filters by the author", func() {
		found := views(h.send("u2", "!** search milk assigned:me"), bot.ViewSearch)
		Expect(found[0].Fields[0].Name).To(Equal("Cards (1)"))

		found = views(h.send("u1", "!** search ship from:me"), bot.ViewSearch)
		Expect(found[0].Fields[0].Name).To(Equal("Cards (0)"))
		Expect(found[0].Fields[0].Value).To(Equal("*No matching cards*"))
	})

	Describe("Search", func() {
		It("matches summaries and reports hit locations", func() {
			store := h.store()
			store.StoreSummary("c1", "u1", "Topic: milk prices", []string{"milk"}, t0)

			res := bot.Search(store, "milk", "u1")
			Expect(res.Query).To(Equal("milk"))
			Expect(res.Cards).To(HaveLen(2))
			Expect(res.Summaries).To(HaveLen(1))

			hit := res.Cards[0]
			Expect(hit.BoardName).To(Equal("Sam — Inbox"))
			Expect(hit.ListName).To(Equal("default"))
			Expect(hit.Card.Title).To(Equal("Buy milk"))
		})

		It("matches everything when only filters are given", func() {
			res := bot.Search(h.store(), "assigned:me", "u1")
			Expect(res.Cards).To(HaveLen(1))
			Expect(res.Cards[0].Card.Title).To(Equal("Buy milk"))
		})

		It("returns empty slices rather than nil", func() {
			res := bot.Search(h.store(), "nothing-here", "u1")
			Expect(res.Cards).NotTo(BeNil())
			Expect(res.Cards).To(BeEmpty())
			Expect(res.Summaries).NotTo(BeNil())
		})
	})
})
