package router_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/disrello/pkg/llm"
	"github.com/papercomputeco/disrello/pkg/llm/router"
	"github.com/papercomputeco/disrello/pkg/model"
)

type fakeClient struct {
	name   string
	reply  string
	err    error
	models []string
	last   *llm.ChatRequest
}

func (f *fakeClient) Name() string { return f.name }

func (f *fakeClient) Chat(_ context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ChatResponse{Message: llm.NewTextMessage(llm.RoleAssistant, f.reply)}, nil
}

func (f *fakeClient) ListModels(context.Context) ([]string, error) {
	return f.models, f.err
}

var _ = Describe("Router", func() {
	var (
		ollama *fakeClient
		openai *fakeClient
		r      *router.Router
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		ollama = &fakeClient{name: "ollama", reply: " local \n", models: []string{"phi3.5"}}
		openai = &fakeClient{name: "openai", reply: "remote"}
		r = router.New(ollama, openai)
	})

	It("routes by provider name", func() {
		out, err := r.Generate(ctx, llm.Prompt{Provider: "Ollama", Model: "phi3.5", System: "sys", User: "hi", Temperature: 0.3})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("local"))
		Expect(ollama.last.Model).To(Equal("phi3.5"))
		Expect(ollama.last.Messages).To(HaveLen(2))
		Expect(ollama.last.Messages[0].Role).To(Equal(llm.RoleSystem))
		Expect(*ollama.last.Temperature).To(Equal(0.3))
	})

	It("omits an empty system message", func() {
		_, err := r.Generate(ctx, llm.Prompt{Provider: "openai", User: "hi"})
		Expect(err).NotTo(HaveOccurred())
		Expect(openai.last.Messages).To(HaveLen(1))
	})

	It("rejects unknown providers", func() {
		_, err := r.Generate(ctx, llm.Prompt{Provider: "bedrock"})
		Expect(errors.Is(err, llm.ErrUnsupportedProvider)).To(BeTrue())
		_, err = r.ListModels(ctx, "bedrock")
		Expect(errors.Is(err, llm.ErrUnsupportedProvider)).To(BeTrue())
	})

	It("passes provider errors through", func() {
		ollama.err = &llm.ProviderError{Provider: "Ollama", Status: 503, Body: "busy"}
		_, err := r.Generate(ctx, llm.Prompt{Provider: "ollama"})
		Expect(err).To(MatchError("Ollama error 503: busy"))
	})

	It("lists models", func() {
		Expect(r.ListModels(ctx, "ollama")).To(Equal([]string{"phi3.5"}))
	})
})

var _ = Describe("Policy", func() {
	var p router.Policy

	BeforeEach(func() {
		p = router.Policy{
			DefaultProvider:   "ollama",
			OllamaModel:       "phi3.5",
			OpenAIModel:       "gpt-4o-mini",
			PreferSmallModels: true,
		}
	})

	Describe("Effective", func() {
		It("falls back to the configured provider and model", func() {
			prov, m := p.Effective(model.AISettings{})
			Expect(prov).To(Equal("ollama"))
			Expect(m).To(Equal("phi3.5"))
		})

		It("uses the provider default model", func() {
			prov, m := p.Effective(model.AISettings{Provider: " OpenAI "})
			Expect(prov).To(Equal("openai"))
			Expect(m).To(Equal("gpt-4o-mini"))
		})

		It("prefers the stored model", func() {
			_, m := p.Effective(model.AISettings{Model: "mistral:7b"})
			Expect(m).To(Equal("mistral:7b"))
		})

		It("ignores unsupported stored providers", func() {
			prov, _ := p.Effective(model.AISettings{Provider: "bedrock"})
			Expect(prov).To(Equal("ollama"))
		})
	})

	Describe("ChooseSmallModel", func() {
		It("picks the first preferred model that fits", func() {
			got, ok := p.ChooseSmallModel("ollama", []string{"mistral:7b", "phi3.5"}, 4)
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal("phi3.5"))
		})

		It("matches case-insensitively", func() {
			got, ok := p.ChooseSmallModel("ollama", []string{"PHI3.5"}, 4)
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal("PHI3.5"))
		})

		It("respects the RAM tier for local models", func() {
			_, ok := p.ChooseSmallModel("ollama", []string{"mistral:7b"}, 4)
			Expect(ok).To(BeFalse())
			got, ok := p.ChooseSmallModel("ollama", []string{"mistral:7b"}, 8)
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal("mistral:7b"))
		})

		It("does not RAM-gate remote models", func() {
			got, ok := p.ChooseSmallModel("openai", []string{"gpt-4.1-mini", "gpt-4o"}, 2)
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal("gpt-4.1-mini"))
		})

		It("does nothing when small models are not preferred", func() {
			p.PreferSmallModels = false
			_, ok := p.ChooseSmallModel("ollama", []string{"phi3.5"}, 4)
			Expect(ok).To(BeFalse())
		})

		It("uses configured preference lists", func() {
			p.PreferredOllama = []string{"tinyllama"}
			got, ok := p.ChooseSmallModel("ollama", []string{"phi3.5", "tinyllama"}, 2)
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal("tinyllama"))
		})
	})
})

var _ = Describe("prompts", func() {
	It("builds the chat prompt with context bullets", func() {
		pr := router.Chat("ollama", "phi3.5", 0.6, "what now?", []string{"a", "", "b"})
		Expect(pr.User).To(Equal("Recent channel context:\n- a\n- b\n\nUser message:\nwhat now?"))
		Expect(pr.Temperature).To(Equal(0.6))
		Expect(pr.System).To(ContainSubstring("Discord chatbot"))
	})

	It("builds the taskify prompt", func() {
		pr := router.Taskify("openai", "gpt-4o-mini", "A: ship it")
		Expect(pr.User).To(Equal("Conversation:\nA: ship it\n\nTasks:"))
		Expect(pr.Temperature).To(Equal(router.TaskifyTemperature))
		Expect(pr.System).To(ContainSubstring("- No clear tasks"))
	})

	It("passes at most ten keywords to the summary prompt", func() {
		kws := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}
		pr := router.Summarise("ollama", "phi3.5", "A: hi", kws)
		Expect(pr.User).To(HavePrefix("Keywords (optional): a, b, c, d, e, f, g, h, i, j\n"))
		Expect(pr.System).To(ContainSubstring("Open questions:"))
	})
})
