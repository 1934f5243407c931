package wiring_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/disrello/cmd/disrello/wiring"
	"github.com/papercomputeco/disrello/pkg/bot"
	"github.com/papercomputeco/disrello/pkg/config"
	"github.com/papercomputeco/disrello/pkg/eventstream/kafka"
	"github.com/papercomputeco/disrello/pkg/eventstream/nop"
	"github.com/papercomputeco/disrello/pkg/logger"
)

var _ = Describe("Wiring", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "wiring-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("NewPublisher", func() {
		It("defaults to the nop publisher", func() {
			pub, err := wiring.NewPublisher(config.NewDefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(pub).To(BeAssignableToTypeOf(&nop.Publisher{}))
		})

		It("builds a kafka publisher from the eventstream section", func() {
			cfg := config.NewDefaultConfig()
			cfg.EventStream.Driver = "kafka"
			cfg.EventStream.Brokers = []string{"localhost:9092"}

			pub, err := wiring.NewPublisher(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(pub).To(BeAssignableToTypeOf(&kafka.Publisher{}))
			Expect(pub.Close()).To(Succeed())
		})

		It("requires brokers for kafka", func() {
			cfg := config.NewDefaultConfig()
			cfg.EventStream.Driver = "kafka"
			_, err := wiring.NewPublisher(cfg)
			Expect(err).To(MatchError(ContainSubstring("at least one broker")))
		})
	})

	Describe("Build", func() {
		It("connects a bot to in-memory storage", func() {
			cfg := config.NewDefaultConfig()
			cfg.Storage.Driver = "memory"

			rt, err := wiring.Build(context.Background(), cfg, tmpDir, logger.Nop())
			Expect(err).NotTo(HaveOccurred())
			defer rt.Close()

			replies, err := rt.Bot.HandleMessage(context.Background(), &bot.MessageEvent{
				GuildID: "g1", ChannelID: "c1", AuthorID: "u1", Text: "TODO: ship it",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(replies).To(HaveLen(1))

			doc, err := rt.Driver.Load(context.Background())
			Expect(err).NotTo(HaveOccurred())
			_, ok := doc.Guild("g1").ResolveBoard("TODO")
			Expect(ok).To(BeTrue())
		})

		It("stores file documents inside the data dir", func() {
			cfg := config.NewDefaultConfig()
			rt, err := wiring.Build(context.Background(), cfg, tmpDir, logger.Nop())
			Expect(err).NotTo(HaveOccurred())
			Expect(rt.Close()).To(Succeed())
			Expect(rt.Config.StorageOptions(tmpDir).Path).To(HavePrefix(tmpDir))
		})
	})

	Describe("LoadConfig", func() {
		It("lets flags override config.toml", func() {
			Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[ollama]\nmodel = \"gemma3\"\n[api]\nlisten = \":7000\"\n"), 0o600)).To(Succeed())

			cmd := &cobra.Command{Use: "test"}
			var listen string
			config.AddStringFlag(cmd, config.Flags, config.FlagListen, &listen)
			Expect(cmd.ParseFlags([]string{"--listen", ":9999"})).To(Succeed())

			cfg, dir, err := wiring.LoadConfig(cmd, tmpDir, []string{config.FlagListen})
			Expect(err).NotTo(HaveOccurred())
			Expect(dir).To(Equal(filepath.Clean(tmpDir)))
			Expect(cfg.API.Listen).To(Equal(":9999"))
			Expect(cfg.Ollama.Model).To(Equal("gemma3"))
		})
	})
})
