package dispatch_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/goleak"

	"github.com/papercomputeco/disrello/pkg/dispatch"
	"github.com/papercomputeco/disrello/pkg/logger"
)

var _ = Describe("Pool", func() {
	var (
		pool    *dispatch.Pool
		ignore  goleak.Option
		ctx     context.Context
		noopJob = func(context.Context) error { return nil }
	)

	BeforeEach(func() {
		ignore = goleak.IgnoreCurrent()
		ctx = context.Background()
		pool = dispatch.NewPool(&dispatch.Config{QueueSize: 1, Logger: logger.Nop()})
	})

	AfterEach(func() {
		pool.Close()
		Expect(goleak.Find(ignore)).To(Succeed())
	})

	It("runs a job and returns its error", func() {
		ran := false
		Expect(pool.Submit(ctx, func(context.Context) error { ran = true; return nil })).To(Succeed())
		Expect(ran).To(BeTrue())

		boom := errors.New("boom")
		Expect(pool.Submit(ctx, func(context.Context) error { return boom })).To(MatchError(boom))
	})

	It("never runs two jobs at once", func() {
		pool.Close()
		pool = dispatch.NewPool(&dispatch.Config{QueueSize: 64})

		var running, maxRunning, total int32
		var wg sync.WaitGroup
		for range 32 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer GinkgoRecover()
				err := pool.Submit(ctx, func(context.Context) error {
					n := atomic.AddInt32(&running, 1)
					for {
						m := atomic.LoadInt32(&maxRunning)
						if n <= m || atomic.CompareAndSwapInt32(&maxRunning, m, n) {
							break
						}
					}
					time.Sleep(time.Millisecond)
					atomic.AddInt32(&running, -1)
					atomic.AddInt32(&total, 1)
					return nil
				})
				Expect(err).NotTo(HaveOccurred())
			}()
		}
		wg.Wait()

		Expect(atomic.LoadInt32(&total)).To(Equal(int32(32)))
		Expect(atomic.LoadInt32(&maxRunning)).To(Equal(int32(1)))
	})

	It("rejects work when the queue is full", func() {
		release := make(chan struct{})
		started := make(chan struct{})

		go func() {
			defer GinkgoRecover()
			Expect(pool.Submit(ctx, func(context.Context) error {
				close(started)
				<-release
				return nil
			})).To(Succeed())
		}()
		Eventually(started).Should(BeClosed())

		queued := make(chan error, 1)
		go func() { queued <- pool.Submit(ctx, noopJob) }()
		Eventually(pool.Len).Should(Equal(1))

		Expect(pool.Submit(ctx, noopJob)).To(MatchError(dispatch.ErrQueueFull))

		close(release)
		Eventually(queued).Should(Receive(BeNil()))
	})

	It("stops waiting when the caller's context ends and skips the job", func() {
		release := make(chan struct{})
		started := make(chan struct{})
		go func() {
			_ = pool.Submit(ctx, func(context.Context) error {
				close(started)
				<-release
				return nil
			})
		}()
		Eventually(started).Should(BeClosed())

		cctx, cancel := context.WithCancel(ctx)
		var ran atomic.Bool
		result := make(chan error, 1)
		go func() {
			result <- pool.Submit(cctx, func(context.Context) error { ran.Store(true); return nil })
		}()
		Eventually(pool.Len).Should(Equal(1))

		cancel()
		Eventually(result).Should(Receive(MatchError(context.Canceled)))

		close(release)
		Expect(pool.Submit(ctx, noopJob)).To(Succeed())
		Expect(ran.Load()).To(BeFalse())
	})

	It("recovers from panicking jobs", func() {
		err := pool.Submit(ctx, func(context.Context) error { panic("kaboom") })
		Expect(err).To(MatchError(ContainSubstring("kaboom")))
		Expect(pool.Submit(ctx, noopJob)).To(Succeed())
	})

	It("refuses jobs after Close", func() {
		pool.Close()
		Expect(pool.Submit(ctx, noopJob)).To(MatchError(dispatch.ErrClosed))
	})
})
