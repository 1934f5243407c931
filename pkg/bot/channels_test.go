package bot_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/disrello/pkg/bot"
	"github.com/papercomputeco/disrello/pkg/model"
)

var _ = Describe("ResolveChannel", func() {
	configured := bot.Channels{Todo: "todo", AIListen: "ai"}

	It("prefers the guild override", func() {
		store := model.NewDocument().Guild("g")
		store.ChannelOverrides["todo"] = "override"
		id, ok := bot.ResolveChannel(store, configured, bot.RoleTodo)
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal("override"))
	})

	It("falls back to the configured channel", func() {
		id, ok := bot.ResolveChannel(model.NewDocument().Guild("g"), configured, bot.RoleAI)
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal("ai"))
	})

	It("reports an unset role", func() {
		_, ok := bot.ResolveChannel(nil, configured, bot.RoleSystem)
		Expect(ok).To(BeFalse())
	})
})
