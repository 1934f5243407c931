package bot_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/disrello/pkg/bot"
	"github.com/papercomputeco/disrello/pkg/model"
)

var _ = Describe("Guild settings", func() {
	var h *harness

	BeforeEach(func() {
		h = newHarness()
	})

	It("lists the settable keys with their values", func() {
		out := texts(h.send("u1", "!** setting"))
		Expect(out).To(HaveLen(1))
		Expect(out[0]).To(ContainSubstring("- `ai_cooldown_s` = `(default)`"))
		Expect(out[0]).To(ContainSubstring("- `auto_capture_tasks_from_ai` = `(default)`"))

		h.send("u1", "!** setting set auto_capture_tasks_from_ai no")
		out = texts(h.send("u1", "!** settings"))
		Expect(out[0]).To(ContainSubstring("- `auto_capture_tasks_from_ai` = `false`"))
	})

	It("stores a value", func() {
		Expect(texts(h.send("u1", "!** setting set ai_cooldown_s 1.5"))).To(ConsistOf("✅ Set `ai_cooldown_s` = `1.5`"))
		v := h.store().Settings.AICooldownS
		Expect(v).NotTo(BeNil())
		Expect(*v).To(Equal(1.5))
	})

	It("rejects unknown keys", func() {
		Expect(texts(h.send("u1", "!** setting set todo_board X"))).To(ConsistOf(
			"❌ Key not allowed. Allowed: ai_cooldown_s, auto_capture_tasks_from_ai, forward_todos_from_other_channels"))
	})

	It("validates values", func() {
		Expect(texts(h.send("u1", "!** setting set ai_cooldown_s soon"))).To(ConsistOf("❌ ai_cooldown_s must be a number."))
		Expect(texts(h.send("u1", "!** setting set forward_todos_from_other_channels maybe"))).To(ConsistOf("❌ Value must be true/false."))
		Expect(h.store().Settings.ForwardTodosFromOtherChannels).To(BeNil())
	})

	It("shows usage for incomplete commands", func() {
		Expect(texts(h.send("u1", "!** setting set ai_cooldown_s"))).To(ConsistOf("❌ Usage: `!** setting set <key> <value>`"))
		Expect(texts(h.send("u1", "!** setting get ai_cooldown_s"))).To(ConsistOf(HavePrefix("❌ Usage:")))
	})

	Describe("channel overrides", func() {
		It("takes the first channel mention", func() {
			Expect(texts(h.send("u1", "!** ai_chat <#c9>", mentioningChannel("c9")))).To(ConsistOf("✅ Set `ai_chat` to <#c9>."))
			Expect(h.store().ChannelOverrides).To(HaveKeyWithValue("ai", "c9"))
		})

		It("accepts a raw channel token", func() {
			h.send("u1", "!** sys_channel <#c7>")
			Expect(h.store().ChannelOverrides).To(HaveKeyWithValue("sys", "c7"))
		})

		It("needs a channel", func() {
			Expect(texts(h.send("u1", "!** todo_channel"))).To(ConsistOf("❌ Usage: `!** todo_channel #channel`"))
		})
	})

	Describe("ApplyGuildSetting", func() {
		It("parses the accepted boolean spellings", func() {
			var s model.Settings
			shown, err := bot.ApplyGuildSetting(&s, bot.SettingForwardTodosFromOtherChannels, " YES ")
			Expect(err).NotTo(HaveOccurred())
			Expect(shown).To(Equal("true"))
			Expect(*s.ForwardTodosFromOtherChannels).To(BeTrue())
		})

		It("rejects negative cooldowns", func() {
			var s model.Settings
			_, err := bot.ApplyGuildSetting(&s, bot.SettingAICooldownS, "-1")
			Expect(err).To(HaveOccurred())
			Expect(s.AICooldownS).To(BeNil())
		})
	})
})
