package parsing_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/disrello/pkg/parsing"
)

var _ = Describe("Parse", func() {
	Context("function-call form", func() {
		It("parses list, board and args", func() {
			in, ok := parsing.Parse(`!card(create)[Backlog] "My Board" "Fix bug" "desc"`)
			Expect(ok).To(BeTrue())
			Expect(in.Command).To(Equal(parsing.CommandCard))
			Expect(in.Action).To(Equal(parsing.ActionCreate))
			Expect(in.ListName).To(Equal("Backlog"))
			Expect(in.BoardRef).To(Equal("My Board"))
			Expect(in.Args).To(Equal([]string{"Fix bug", "desc"}))
			Expect(in.RawRest).To(Equal(`[Backlog] "My Board" "Fix bug" "desc"`))
			Expect(in.RawRestWithoutList).To(Equal(`"My Board" "Fix bug" "desc"`))
		})

		It("keeps quotes inside a bracket list name out of the arguments", func() {
			in, ok := parsing.Parse(`!card(list) "Board" [The "Q" list]`)
			Expect(ok).To(BeTrue())
			Expect(in.ListName).To(Equal(`The "Q" list`))
			Expect(in.BoardRef).To(Equal("Board"))
			Expect(in.Args).To(BeEmpty())
		})

		It("accepts unknown words as unknown variants", func() {
			in, ok := parsing.Parse(`!zap(frob) "x"`)
			Expect(ok).To(BeTrue())
			Expect(in.Command).To(Equal(parsing.CommandUnknown))
			Expect(in.Action).To(Equal(parsing.ActionUnknown))
			Expect(in.Word).To(Equal("zap"))
		})

		It("lowercases command and action", func() {
			in, ok := parsing.Parse(`!CARD(Toggle) "B" card_1`)
			Expect(ok).To(BeTrue())
			Expect(in.Command).To(Equal(parsing.CommandCard))
			Expect(in.Action).To(Equal(parsing.ActionToggle))
		})
	})

	Context("shortcut form", func() {
		It("maps legacy fused names with a bare board token", func() {
			in, ok := parsing.Parse(`!cardscreate MyBoard "Title"`)
			Expect(ok).To(BeTrue())
			Expect(in.Command).To(Equal(parsing.CommandCard))
			Expect(in.Action).To(Equal(parsing.ActionCreate))
			Expect(in.BoardRef).To(Equal("MyBoard"))
			Expect(in.Args).To(Equal([]string{"Title"}))
			Expect(in.Word).To(Equal("cardscreate"))
		})

		It("consumes a leading action keyword", func() {
			in, ok := parsing.Parse(`!card create "Fix the build" [Todo]`)
			Expect(ok).To(BeTrue())
			Expect(in.Action).To(Equal(parsing.ActionCreate))
			Expect(in.ListName).To(Equal("Todo"))
			Expect(in.BoardRef).To(Equal("Fix the build"))
			Expect(in.Args).To(BeEmpty())
		})

		It("leaves non-action tokens alone", func() {
			in, ok := parsing.Parse(`!board roadmap`)
			Expect(ok).To(BeTrue())
			Expect(in.Action).To(Equal(parsing.ActionShortcut))
			Expect(in.BoardRef).To(BeEmpty())
			Expect(in.RawRest).To(Equal("roadmap"))
		})

		It("uses the first quoted segment as the reference", func() {
			in, ok := parsing.Parse(`!board "My Board"`)
			Expect(ok).To(BeTrue())
			Expect(in.Action).To(Equal(parsing.ActionShortcut))
			Expect(in.BoardRef).To(Equal("My Board"))
		})

		It("takes a bare token as the reference on create", func() {
			in, ok := parsing.Parse(`!boardscreate Roadmap`)
			Expect(ok).To(BeTrue())
			Expect(in.Command).To(Equal(parsing.CommandBoard))
			Expect(in.BoardRef).To(Equal("Roadmap"))
		})

		It("does not consume action keywords for other commands", func() {
			in, ok := parsing.Parse(`!render boards`)
			Expect(ok).To(BeTrue())
			Expect(in.Command).To(Equal(parsing.CommandRender))
			Expect(in.Action).To(Equal(parsing.ActionShortcut))
			Expect(in.RawRest).To(Equal("boards"))
		})

		It("keeps unquoted tokens in the raw rest", func() {
			in, ok := parsing.Parse(`!card done "B" card_abc true`)
			Expect(ok).To(BeTrue())
			Expect(in.Action).To(Equal(parsing.ActionDone))
			Expect(in.BoardRef).To(Equal("B"))
			Expect(in.RawRestWithoutList).To(Equal(`"B" card_abc true`))
		})

		It("folds summarise spellings and settings", func() {
			in, ok := parsing.Parse("!summarize")
			Expect(ok).To(BeTrue())
			Expect(in.Command).To(Equal(parsing.CommandSummarise))

			in, ok = parsing.Parse("!setting")
			Expect(ok).To(BeTrue())
			Expect(in.Command).To(Equal(parsing.CommandSettings))
		})

		It("rejects commands outside the allow-list", func() {
			_, ok := parsing.Parse("!dance now")
			Expect(ok).To(BeFalse())
			_, ok = parsing.Parse("no bang")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("extractors", func() {
		It("pulls the first bracket only", func() {
			name, rest := parsing.ExtractBracketList(`a [One] b [Two]`)
			Expect(name).To(Equal("One"))
			Expect(rest).To(Equal("a  b [Two]"))
		})

		It("returns trimmed text without a bracket", func() {
			name, rest := parsing.ExtractBracketList("  plain ")
			Expect(name).To(BeEmpty())
			Expect(rest).To(Equal("plain"))
		})

		It("trims quoted segments", func() {
			Expect(parsing.ExtractQuotedArgs(`"  a " x "b"`)).To(Equal([]string{"a", "b"}))
			Expect(parsing.ExtractQuotedArgs("none")).To(BeEmpty())
		})
	})

	Describe("enums", func() {
		It("round-trips names", func() {
			for _, w := range []string{"board", "list", "card", "render", "delete", "search"} {
				Expect(parsing.ParseCommand(w).String()).To(Equal(w))
			}
			for _, w := range []string{"create", "view", "list", "done", "toggle", "progress", "delete"} {
				Expect(parsing.ParseAction(w).String()).To(Equal(w))
			}
			Expect(parsing.ParseCommand("nope").String()).To(Equal("unknown"))
		})
	})

	Describe("UsageHint", func() {
		It("matches legacy prefixes that fail to parse", func() {
			text := "!cardscreatex Foo"
			_, ok := parsing.Parse(text)
			Expect(ok).To(BeFalse())
			hint, ok := parsing.UsageHint(text)
			Expect(ok).To(BeTrue())
			Expect(hint).To(Equal(parsing.UsageCardsCreate))
		})

		It("stays silent otherwise", func() {
			_, ok := parsing.UsageHint("!dance")
			Expect(ok).To(BeFalse())
		})
	})
})
