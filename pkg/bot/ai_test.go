package bot_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/disrello/pkg/bot"
	"github.com/papercomputeco/disrello/pkg/eventstream"
	"github.com/papercomputeco/disrello/pkg/llm"
)

var _ = Describe("AI", func() {
	var h *harness

	BeforeEach(func() {
		h = newHarness()
	})

	Describe("chat", func() {
		It("answers !ai prompts with the configured provider and model", func() {
			h.gen.Replies = []string{"Hi there"}
			Expect(texts(h.send("u1", "!ai hello"))).To(ConsistOf("Hi there"))

			Expect(h.gen.Prompts).To(HaveLen(1))
			p := h.gen.Prompts[0]
			Expect(p.Provider).To(Equal("ollama"))
			Expect(p.Model).To(Equal("phi3.5"))
			Expect(p.User).To(ContainSubstring("User message:\nhello"))
		})

		It("asks for a prompt on a bare !ai", func() {
			Expect(texts(h.send("u1", "!ai"))).To(ConsistOf("❌ Usage: `!ai <prompt>`"))
			Expect(h.gen.Calls()).To(BeZero())
		})

		It("does not treat other words starting with !ai as triggers", func() {
			h.send("u1", "!aim high")
			Expect(h.gen.Calls()).To(BeZero())
		})

		It("answers a bot mention without the mention token", func() {
			h.gen.Replies = []string{"ok"}
			h.send("u1", "<@bot> what's up", mentioning("bot"))
			Expect(h.gen.Prompts).To(HaveLen(1))
			Expect(h.gen.Prompts[0].User).To(ContainSubstring("User message:\nwhat's up"))
		})

		It("answers plain text in the AI listen channel but not commands", func() {
			h = newHarness(withSettings(func(s *bot.Settings) { s.Channels.AIListen = "ai" }))
			h.gen.Replies = []string{"hey"}

			Expect(texts(h.send("u1", "hello there", inChannel("ai")))).To(ConsistOf("hey"))
			h.send("u1", "!boards", inChannel("ai"))
			Expect(h.gen.Calls()).To(Equal(1))
		})

		It("reports provider failures without touching the document", func() {
			h.gen.Err = &llm.ProviderError{Provider: "ollama", Err: errors.New("connection refused")}
			Expect(texts(h.send("u1", "!ai hello"))).To(ConsistOf("⚠️ AI error: ollama: connection refused"))
			Expect(h.store().Boards).To(BeEmpty())
		})

		It("honors the per-channel cooldown", func() {
			h = newHarness(withSettings(func(s *bot.Settings) { s.AICooldown = 10 * time.Second }))
			h.gen.Replies = []string{"reply"}

			h.send("u1", "!ai one")
			Expect(h.send("u1", "!ai two")).To(BeEmpty())
			Expect(h.gen.Calls()).To(Equal(1))

			h.now = h.now.Add(10 * time.Second)
			Expect(texts(h.send("u1", "!ai three"))).To(ConsistOf("reply"))
		})

		It("lets the guild cooldown setting override the configured one", func() {
			h = newHarness(withSettings(func(s *bot.Settings) { s.AICooldown = time.Hour }))
			h.gen.Replies = []string{"reply"}
			h.send("admin", "!** setting set ai_cooldown_s 0")

			h.send("u1", "!ai one")
			h.send("u1", "!ai two")
			Expect(h.gen.Calls()).To(Equal(2))
		})

		It("redirects system words to the system prefix", func() {
			Expect(texts(h.send("u1", "!ai status"))).To(ConsistOf("ℹ️ System controls moved to `!** ai ...` (example: `!** ai status`)."))
			Expect(h.gen.Calls()).To(BeZero())
		})

		It("auto-picks a preferred small model when none is stored", func() {
			h.gen.Models = []string{"gemma3", "phi3.5"}
			h.gen.Replies = []string{"hi"}
			h.send("u1", "!ai hello")
			Expect(h.store().AI.Model).To(Equal("phi3.5"))
		})

		It("keeps the auto-picked model unsaved until the provider answers", func() {
			h.gen.Models = []string{"gemma3", "phi3.5"}
			h.gen.Err = errors.New("down")

			Expect(texts(h.send("u1", "!ai hello"))).To(ConsistOf("⚠️ AI error: down"))
			Expect(h.store().AI.Model).To(BeEmpty())

			h.gen.Err = nil
			h.gen.Replies = []string{"hi"}
			Expect(texts(h.send("u1", "!ai hello again"))).To(ConsistOf("hi"))
			Expect(h.store().AI.Model).To(Equal("phi3.5"))
		})
	})

	Describe("auto-capture from AI replies", func() {
		BeforeEach(func() {
			h.gen.Replies = []string{"Sure:\n- buy milk\n- call bob"}
		})

		It("offers the reply's bullets for confirmation", func() {
			replies := h.send("u1", "!ai plan my day")
			Expect(replies).To(HaveLen(2))
			Expect(replies[0].Text).To(HavePrefix("Sure:"))
			Expect(replies[1].View.Kind).To(Equal(bot.ViewConfirm))

			h.send("u1", "yes")
			inbox := h.inbox()
			Expect(cardTitles(inbox)).To(Equal([]string{"buy milk", "call bob"}))
			Expect(inbox.Cards[0].Desc).To(Equal("Captured from: AI in <#c1> / Sam"))
		})

		It("is skipped when the guild disables it", func() {
			h.send("admin", "!** setting set auto_capture_tasks_from_ai off")
			replies := h.send("u1", "!ai plan my day")
			Expect(views(replies, bot.ViewConfirm)).To(BeEmpty())
		})
	})

	Describe("taskify", func() {
		chat := func() {
			h.send("u1", "the login page is broken again")
			h.send("u2", "yeah it throws on submit")
			h.send("u1", "probably the csrf token")
			h.send("u2", "can you look at it after lunch")
			h.send("u1", "sure, also the docs are stale")
			h.send("u2", "ok lets split the work")
		}

		It("needs a recent conversation", func() {
			Expect(texts(h.send("u1", "!ai make that a task"))).To(ConsistOf("❌ Not enough recent chat to taskify (yet)."))
			Expect(h.gen.Calls()).To(BeZero())
		})

		It("drafts tasks, picks one and turns it into a card", func() {
			chat()
			h.gen.Replies = []string{"- Fix login CSRF bug\n- Update docs"}

			replies := h.send("u1", "!ai make that a task")
			drafts := views(replies, bot.ViewDraft)
			Expect(drafts).To(HaveLen(1))
			Expect(drafts[0].Description).To(Equal("**1)** Fix login CSRF bug\n**2)** Update docs"))
			Expect(h.gen.Prompts[0].User).To(ContainSubstring("Sam: the login page is broken again"))
			Expect(h.gen.Prompts[0].User).To(ContainSubstring("Kai: yeah it throws on submit"))

			Expect(texts(h.send("u1", "!ai 5"))).To(ConsistOf("❌ Pick 1-2."))
			Expect(texts(h.send("u1", "!ai 2"))).To(ConsistOf("✅ Selected:\n1) Update docs\nNow run `!ai make it a card`."))

			replies = h.send("u1", "!ai make it a card")
			Expect(views(replies, bot.ViewCapture)).To(HaveLen(1))
			Expect(texts(replies)).To(ContainElement("✅ Created **1** card(s) in (not configured)."))

			inbox := h.inbox()
			Expect(cardTitles(inbox)).To(ConsistOf("Update docs"))
			Expect(inbox.Cards[0].Desc).To(ContainSubstring("Taskified from <#c1> (~7 msgs / 6s) by Sam"))
		})

		It("keeps drafts per author", func() {
			chat()
			h.gen.Replies = []string{"- Fix login CSRF bug"}
			h.send("u1", "!ai make that a task")

			Expect(texts(h.send("u2", "!ai make it a card"))).To(ConsistOf("❌ No draft tasks. Use `!ai make that a task` first."))
		})

		It("reports a reply without tasks", func() {
			chat()
			h.gen.Replies = []string{"- no clear tasks"}
			Expect(texts(h.send("u1", "!ai make that a task"))).To(ConsistOf("❌ No clear tasks found."))
		})
	})

	Describe("fast delete", func() {
		It("removes a TODO card by id", func() {
			h.send("u1", "- [ ] thing")
			id := h.inbox().Cards[0].ID

			Expect(texts(h.send("u1", "!ai delete card "+id))).To(ConsistOf("🗑️ Deleted."))
			Expect(h.inbox().Cards).To(BeEmpty())
			Expect(h.gen.Calls()).To(BeZero())
		})

		It("refuses to delete another member's card", func() {
			h.send("u1", "- [ ] thing")
			id := h.inbox().Cards[0].ID
			before := h.store().Boards

			Expect(texts(h.send("u2", "!ai delete card "+id))).To(ConsistOf("❌ You can only delete your own cards."))
			Expect(h.store().Boards).To(Equal(before))
			Expect(h.pub.Types()).NotTo(ContainElement(eventstream.EventTypeCardDeleted))
		})

		It("lets an admin delete any TODO card", func() {
			h.send("u1", "- [ ] thing")
			id := h.inbox().Cards[0].ID

			Expect(texts(h.send("admin", "!ai delete card "+id, asAdmin()))).To(ConsistOf("🗑️ Deleted."))
			Expect(h.inbox().Cards).To(BeEmpty())
		})

		It("reports a missing TODO board", func() {
			Expect(texts(h.send("u1", "!ai delete card card_abc123"))).To(ConsistOf("❌ TODO board not found."))
		})

		It("reports a missing card", func() {
			h.send("u1", "- [ ] thing")
			Expect(texts(h.send("u1", "!ai delete card card_abc123"))).To(ConsistOf("❌ Card not found."))
		})
	})

	Describe("system controls", func() {
		It("shows help for a bare !** ai", func() {
			Expect(texts(h.send("u1", "!** ai"))).To(ConsistOf(HavePrefix("**System AI controls")))
		})

		It("reports the status", func() {
			out := texts(h.send("u1", "!** ai status"))
			Expect(out).To(HaveLen(1))
			Expect(out[0]).To(ContainSubstring("• Provider: `ollama`"))
			Expect(out[0]).To(ContainSubstring("• Model: `phi3.5`"))
			Expect(out[0]).To(ContainSubstring("• RAM cap: `4GB` (max `8GB`)"))
		})

		It("sets the RAM tier and clears the model", func() {
			h.send("u1", "!** ai model set phi3.5")
			Expect(texts(h.send("u1", "!** ai ram 8"))).To(ConsistOf("✅ RAM limit set to `8GB`. Run `!** ai models` to pick a model."))
			ai := h.store().AI
			Expect(ai.RAMGB).To(Equal(8))
			Expect(ai.Model).To(BeEmpty())
		})

		It("accepts only the known RAM tiers", func() {
			Expect(texts(h.send("u1", "!** ai ram 16"))).To(ConsistOf("❌ RAM must be 2, 4, or 8 (no higher)."))
			Expect(texts(h.send("u1", "!** ai ram 2"))).To(ConsistOf(HavePrefix("✅ RAM limit set to `2GB`")))
		})

		It("gates local models by the RAM tier", func() {
			out := texts(h.send("u1", "!** ai model set mistral"))
			Expect(out).To(HaveLen(1))
			Expect(out[0]).To(HavePrefix("❌ `mistral` is not allowed under the current RAM cap (`4GB`)."))
			Expect(out[0]).To(ContainSubstring("Estimated: ~7.5GB"))

			Expect(texts(h.send("u1", "!** ai model set phi3.5"))).To(ConsistOf("✅ Model set to `phi3.5` for provider `ollama`."))
			Expect(h.store().AI.Model).To(Equal("phi3.5"))
		})

		It("switches providers and skips the RAM gate for remote models", func() {
			Expect(texts(h.send("u1", "!** ai provider set openai"))).To(ConsistOf("✅ Provider set to `openai` (model cleared; use `!** ai models`)."))
			Expect(texts(h.send("u1", "!** ai model set gpt-4o"))).To(ConsistOf("✅ Model set to `gpt-4o` for provider `openai`."))
			Expect(h.store().AI.Provider).To(Equal("openai"))
		})

		It("rejects unknown providers", func() {
			Expect(texts(h.send("u1", "!** ai provider set claude"))).To(ConsistOf("❌ Unknown provider. Supported: ollama, openai"))
		})

		It("lists models and auto-picks a small one", func() {
			h.gen.Models = []string{"gemma3", "phi3.5"}
			out := texts(h.send("u1", "!** ai models"))
			Expect(out).To(HaveLen(1))
			Expect(out[0]).To(ContainSubstring("**Current model:** `phi3.5`"))
			Expect(out[0]).To(ContainSubstring("- `gemma3`"))
			Expect(h.store().AI.Model).To(Equal("phi3.5"))
		})

		It("reports model listing failures", func() {
			h.gen.ModelsErr = errors.New("boom")
			Expect(texts(h.send("u1", "!** ai models"))).To(ConsistOf("⚠️ Model list error (ollama): boom"))
		})

		It("rejects unknown controls", func() {
			Expect(texts(h.send("u1", "!** ai bogus"))).To(ConsistOf("❌ Unknown system command. Try `!** ai help`."))
		})
	})
})
