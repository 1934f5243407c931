package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/disrello/pkg/llm"
	"github.com/papercomputeco/disrello/pkg/llm/provider/openai"
)

var _ = Describe("OpenAI Client", func() {
	var (
		server  *httptest.Server
		handler http.HandlerFunc
		client  *openai.Client
		ctx     context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler(w, r)
		}))
		DeferCleanup(server.Close)
		client = openai.New(openai.Config{BaseURL: server.URL, APIKey: "sk-test"})
	})

	Describe("Name", func() {
		It("returns 'openai'", func() {
			Expect(client.Name()).To(Equal("openai"))
		})
	})

	Describe("Chat", func() {
		It("sends bearer auth and returns the first choice", func() {
			var got map[string]any
			handler = func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/v1/chat/completions"))
				Expect(r.Header.Get("Authorization")).To(Equal("Bearer sk-test"))
				Expect(json.NewDecoder(r.Body).Decode(&got)).To(Succeed())
				_, _ = w.Write([]byte(`{
					"id": "chatcmpl-1",
					"model": "gpt-4o-mini",
					"created": 1700000000,
					"choices": [{"index": 0, "message": {"role": "assistant", "content": " - Ship it "}, "finish_reason": "stop"}],
					"usage": {"prompt_tokens": 3, "completion_tokens": 4, "total_tokens": 7}
				}`))
			}

			temp := 0.6
			resp, err := client.Chat(ctx, &llm.ChatRequest{
				Model:       "gpt-4o-mini",
				Messages:    []llm.Message{llm.NewTextMessage(llm.RoleUser, "hi")},
				Temperature: &temp,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Message.Content).To(Equal("- Ship it"))
			Expect(resp.StopReason).To(Equal("stop"))
			Expect(resp.Usage.TotalTokens).To(Equal(7))
			Expect(got["temperature"]).To(BeNumerically("==", 0.6))
		})

		It("returns empty content when there are no choices", func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"choices": []}`))
			}
			resp, err := client.Chat(ctx, &llm.ChatRequest{Model: "m"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Message.Content).To(BeEmpty())
		})

		It("fails without an API key", func() {
			keyless := openai.New(openai.Config{BaseURL: server.URL})
			_, err := keyless.Chat(ctx, &llm.ChatRequest{Model: "m"})
			Expect(errors.Is(err, openai.ErrMissingAPIKey)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("missing OPENAI_API_KEY"))
		})

		It("wraps upstream errors", func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"bad key"}`))
			}
			_, err := client.Chat(ctx, &llm.ChatRequest{Model: "m"})
			Expect(err).To(MatchError(`OpenAI-compatible error 401: {"error":"bad key"}`))
		})
	})

	Describe("ListModels", func() {
		It("returns sorted unique ids", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/v1/models"))
				_, _ = w.Write([]byte(`{"data": [{"id": "gpt-4o-mini"}, {"id": "gpt-3.5-turbo"}, {"id": "gpt-4o-mini"}]}`))
			}
			models, err := client.ListModels(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(models).To(Equal([]string{"gpt-3.5-turbo", "gpt-4o-mini"}))
		})

		It("fails without an API key", func() {
			_, err := openai.New(openai.Config{}).ListModels(ctx)
			Expect(errors.Is(err, openai.ErrMissingAPIKey)).To(BeTrue())
		})
	})
})
