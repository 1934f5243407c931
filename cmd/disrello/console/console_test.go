package consolecmder_test

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	consolecmder "github.com/papercomputeco/disrello/cmd/disrello/console"
	"github.com/papercomputeco/disrello/pkg/bot"
	"github.com/papercomputeco/disrello/pkg/cliui"
	"github.com/papercomputeco/disrello/pkg/model"
	"github.com/papercomputeco/disrello/pkg/storage/inmemory"
	testutils "github.com/papercomputeco/disrello/pkg/utils/test"
)

var postRef = regexp.MustCompile(`/react (\S+)\)`)

var _ = Describe("Console", func() {
	var (
		driver  *inmemory.Driver
		gen     *testutils.FakeGenerator
		b       *bot.Bot
		out     *bytes.Buffer
		session consolecmder.Session
	)

	BeforeEach(func() {
		driver = inmemory.NewDriver()
		gen = &testutils.FakeGenerator{}

		settings := bot.DefaultSettings()
		settings.AICooldown = 0

		var err error
		b, err = bot.New(&bot.Config{Driver: driver, Generator: gen, Settings: settings})
		Expect(err).NotTo(HaveOccurred())

		out = &bytes.Buffer{}
		session = consolecmder.Session{GuildID: "local", ChannelID: "console", AuthorID: "u1", AuthorName: "Sam"}
	})

	run := func(input string) {
		p := cliui.NewPrinter(out, false)
		Expect(consolecmder.Run(context.Background(), b, strings.NewReader(input), out, p, session)).To(Succeed())
	}

	guild := func() *model.GuildStore {
		doc, err := driver.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		return doc.Guild("local")
	}

	It("delivers each line as a message and prints the replies", func() {
		run("!boards\n")
		Expect(out.String()).To(ContainSubstring("(No boards yet.)"))
	})

	It("captures todos and completes them through /react", func() {
		run("- [ ] water plants\n")
		Expect(out.String()).To(ContainSubstring("water plants"))

		m := postRef.FindStringSubmatch(out.String())
		Expect(m).To(HaveLen(2))

		out.Reset()
		run("/react " + m[1] + "\n")
		Expect(out.String()).To(ContainSubstring("Marked all linked TODO cards done."))

		board, ok := guild().ResolveBoard("TODO")
		Expect(ok).To(BeTrue())
		Expect(board.Lists[len(board.Lists)-1].Cards[0].Done).To(BeTrue())
	})

	It("explains a bare /react", func() {
		run("/react\n")
		Expect(out.String()).To(ContainSubstring("Usage: /react <post> [emoji]"))
	})

	It("answers mentions of the bot through the AI", func() {
		gen.Replies = []string{"hello from the model"}
		run("<@disrello> hi there\n")
		Expect(out.String()).To(ContainSubstring("hello from the model"))
		Expect(gen.Prompts[0].User).To(ContainSubstring("hi there"))
	})

	It("stops at /quit and skips blank lines", func() {
		run("\n\n/quit\n!boards\n")
		Expect(out.String()).To(BeEmpty())
	})

	It("defaults the display name to the user id", func() {
		session.AuthorName = ""
		run(`!card create "Buy milk"` + "\n")
		_, ok := guild().ResolveBoard("u1 — Inbox")
		Expect(ok).To(BeTrue())
	})

	It("stops when the context is done", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := consolecmder.Run(ctx, b, strings.NewReader("!boards\n"), out, cliui.NewPrinter(out, false), session)
		Expect(err).To(MatchError(context.Canceled))
	})
})
