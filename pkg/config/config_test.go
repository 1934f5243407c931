package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/disrello/pkg/config"
)

var _ = Describe("Configer config", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	writeConfig := func(data string) {
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())
	}

	Describe("LoadConfig", func() {
		It("returns default config when no config file exists", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.NewDefaultConfig()))
		})

		It("loads a valid config file over the defaults", func() {
			writeConfig(`version = 0

[llm]
provider = "openai"

[ollama]
model = "llama3.2:1b"
temperature = 0.0

[behavior]
ai_cooldown_s = 0.5
auto_capture_tasks_from_ai = false

[channels]
todo = "c-todo"
`)

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.LLM.Provider).To(Equal("openai"))
			Expect(cfg.Ollama.Model).To(Equal("llama3.2:1b"))
			Expect(cfg.Ollama.Temperature).To(Equal(0.0))
			Expect(cfg.Behavior.AICooldownS).To(Equal(0.5))
			Expect(cfg.Behavior.AutoCaptureTasksFromAI).To(BeFalse())
			Expect(cfg.Behavior.ForwardTodosFromOtherChannels).To(BeTrue())
			Expect(cfg.Channels.Todo).To(Equal("c-todo"))

			Expect(cfg.Ollama.URL).To(Equal("http://127.0.0.1:11434"))
			Expect(cfg.Summarise.ChannelScanLimit).To(Equal(1200))
			Expect(cfg.LLM.PreferredOllamaModels).To(ContainElement("phi3.5"))
		})

		It("replaces preference lists instead of merging them", func() {
			writeConfig(`[llm]
preferred_ollama_models = ["tinyllama"]
`)
			cfg, err := config.LoadFile(filepath.Join(tmpDir, "config.toml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.LLM.PreferredOllamaModels).To(Equal([]string{"tinyllama"}))
			Expect(config.NewDefaultConfig().LLM.PreferredOllamaModels[0]).To(Equal("phi3.5"))
		})

		It("fills zero numeric values from the defaults", func() {
			writeConfig(`[taskify]
lookback_s = 0
min_messages = 3
`)
			cfg, err := config.LoadFile(filepath.Join(tmpDir, "config.toml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Taskify.LookbackS).To(Equal(900))
			Expect(cfg.Taskify.MinMessages).To(Equal(3))
		})

		It("returns error for malformed TOML", func() {
			writeConfig("not valid toml [[[")

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).To(HaveOccurred())
			Expect(cfg).To(BeNil())
		})

		It("returns error for unsupported config version", func() {
			writeConfig("version = 99\n")

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("unsupported config version 99")))
		})
	})

	Describe("SaveConfig", func() {
		It("round trips through the file", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg := config.NewDefaultConfig()
			cfg.Behavior.AutoCaptureTasksFromAI = false
			cfg.EventStream.Brokers = []string{"k1:9092", "k2:9092"}
			Expect(c.SaveConfig(cfg)).To(Succeed())

			loaded, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(cfg))

			info, err := os.Stat(c.GetTarget())
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))
		})

		It("rejects a nil config", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SaveConfig(nil)).To(MatchError("cannot save nil config"))
		})
	})

	Describe("SetConfigValue and GetConfigValue", func() {
		var c *config.Configer

		BeforeEach(func() {
			var err error
			c, err = config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
		})

		It("sets and reads back a string key", func() {
			Expect(c.SetConfigValue("channels.todo", "123")).To(Succeed())
			v, err := c.GetConfigValue("channels.todo")
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("123"))
		})

		It("parses typed keys", func() {
			Expect(c.SetConfigValue("behavior.ai_cooldown_s", "1.25")).To(Succeed())
			Expect(c.SetConfigValue("llm.prefer_small_models", "false")).To(Succeed())
			Expect(c.SetConfigValue("eventstream.brokers", "a:9092, b:9092")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Behavior.AICooldownS).To(Equal(1.25))
			Expect(cfg.LLM.PreferSmallModels).To(BeFalse())
			Expect(cfg.EventStream.Brokers).To(Equal([]string{"a:9092", "b:9092"}))

			v, err := c.GetConfigValue("eventstream.brokers")
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("a:9092,b:9092"))
		})

		It("rejects bad values without writing", func() {
			Expect(c.SetConfigValue("ollama.timeout_s", "soon")).To(MatchError(ContainSubstring("invalid value for ollama.timeout_s")))
			Expect(c.SetConfigValue("behavior.ai_cooldown_s", "-1")).To(HaveOccurred())
			Expect(c.SetConfigValue("llm.provider", "anthropic")).To(MatchError(ContainSubstring("unsupported llm.provider")))
			Expect(c.SetConfigValue("storage.driver", "s3")).To(MatchError(ContainSubstring("unsupported storage.driver")))
			Expect(c.GetTarget()).NotTo(BeAnExistingFile())
		})

		It("rejects unknown keys", func() {
			Expect(c.SetConfigValue("proxy.listen", ":1")).To(MatchError(ContainSubstring("unknown config key")))
			_, err := c.GetConfigValue("proxy.listen")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ValidConfigKeys", func() {
		It("lists every key exactly once in section order", func() {
			keys := config.ValidConfigKeys()
			Expect(keys[0]).To(Equal("storage.driver"))
			Expect(keys).To(ContainElements("behavior.pending_ttl_s", "eventstream.topic", "summarise.min_content_chars"))

			seen := map[string]bool{}
			for _, k := range keys {
				Expect(seen[k]).To(BeFalse(), k)
				seen[k] = true
				Expect(config.IsValidConfigKey(k)).To(BeTrue())
			}
		})

		It("has a value for every key on the defaults", func() {
			cfg := config.NewDefaultConfig()
			for _, k := range config.ValidConfigKeys() {
				_, ok := cfg.Get(k)
				Expect(ok).To(BeTrue(), k)
			}
			v, _ := cfg.Get("behavior.ai_cooldown_s")
			Expect(v).To(Equal("2.5"))
		})
	})

	Describe("derived settings", func() {
		It("converts burst sections and timeouts", func() {
			cfg := config.NewDefaultConfig()
			p := cfg.Taskify.Params()
			Expect(p.Lookback).To(Equal(15 * time.Minute))
			Expect(p.SilenceGap).To(Equal(75 * time.Second))
			Expect(p.TargetMaxMessages).To(Equal(40))

			Expect(cfg.Behavior.AICooldown()).To(Equal(2500 * time.Millisecond))
			Expect(cfg.Behavior.PendingTTL()).To(Equal(2 * time.Minute))
			Expect(cfg.Timeout("openai")).To(Equal(45 * time.Second))

			pol := cfg.RouterPolicy()
			Expect(pol.DefaultProvider).To(Equal("ollama"))
			Expect(pol.OllamaModel).To(Equal("phi3.5"))
			Expect(pol.PreferSmallModels).To(BeTrue())

			pc := cfg.ProviderConfig("sk-test")
			Expect(pc.OpenAI.APIKey).To(Equal("sk-test"))
			Expect(pc.Ollama.BaseURL).To(Equal("http://127.0.0.1:11434"))
		})

		It("resolves relative storage paths against the data dir", func() {
			cfg := config.NewDefaultConfig()
			opts := cfg.StorageOptions("/data")
			Expect(opts.Driver).To(Equal("file"))
			Expect(opts.Path).To(Equal("/data/disrello_ai_data.json"))
			Expect(cfg.StorageTarget("/data")).To(Equal("/data/disrello_ai_data.json"))

			cfg.Storage.Driver = "sqlite"
			cfg.Storage.SQLitePath = "/abs/disrello.db"
			Expect(cfg.StorageOptions("/data").SQLitePath).To(Equal("/abs/disrello.db"))

			cfg.Storage.Driver = "redis"
			cfg.Storage.RedisAddr = "localhost:6379"
			Expect(cfg.StorageTarget("/data")).To(Equal("localhost:6379/disrello:document"))
		})
	})
})
