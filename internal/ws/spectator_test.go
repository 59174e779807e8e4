package ws_test

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kiliankoe/gptmafia/internal/config"
	"github.com/kiliankoe/gptmafia/internal/game"
	"github.com/kiliankoe/gptmafia/internal/game/gametest"
	"github.com/kiliankoe/gptmafia/internal/game/roles"
	"github.com/kiliankoe/gptmafia/internal/ws"
)

var _ = Describe("Spectator API", func() {
	var ctx context.Context
	var client *resty.Client
	var hub *ws.Hub
	var g *game.Game

	BeforeEach(func() {
		var cancelFn context.CancelFunc
		ctx, cancelFn = context.WithTimeout(context.Background(), time.Minute)
		DeferCleanup(cancelFn)

		gin.SetMode(gin.TestMode)
		hub = ws.New(config.Config{})
		r := gin.New()
		io := hub.Mount(r)
		srv := httptest.NewServer(r)
		DeferCleanup(srv.Close)
		DeferCleanup(func() { _ = io.Close() })
		client = resty.New().SetBaseURL(srv.URL)

		rs, err := roles.Parse([]string{"Godfather", "Innocent:2"})
		Expect(err).ToNot(HaveOccurred())
		agent := &gametest.Script{
			Day:   map[string]string{"Ann": "<SPEAK>Tom looks nervous.</SPEAK>"},
			Night: map[string]string{"Tom": "<KILL>Ann</KILL>"},
		}
		g, err = game.New(game.DefaultSettings(), agent, rs,
			game.WithID("spectated"),
			game.WithNames("Tom", "Ann", "Bob"),
			game.WithoutShuffle(),
			game.WithRand(rand.New(rand.NewSource(1))),
			game.WithObserver(hub),
		)
		Expect(err).ToNot(HaveOccurred())
	})

	It("reports no game before the first checkpoint", func() {
		resp, err := client.R().SetContext(ctx).Get("/api/game")
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.StatusCode()).To(Equal(http.StatusNotFound))
	})

	It("serves the final state of a finished game", func() {
		winner, err := g.Run(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(winner).To(Equal(game.WinnerMafia))

		var snap game.Snapshot
		resp, err := client.R().SetContext(ctx).SetResult(&snap).Get("/api/game")
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.StatusCode()).To(Equal(http.StatusOK))
		Expect(snap.GameID).To(Equal("spectated"))
		Expect(snap.Winner).To(Equal(game.WinnerMafia))
		Expect(snap.Players).To(HaveLen(3))
		Expect(snap.Players[1].Status).To(Equal("Dead"), "Ann was killed at night")
	})

	It("replays the public history after a sequence number", func() {
		_, err := g.Run(ctx)
		Expect(err).ToNot(HaveOccurred())
		hist := g.History()

		var body struct {
			Events []game.Event `json:"events"`
		}
		resp, err := client.R().SetContext(ctx).SetQueryParam("since", "2").SetResult(&body).Get("/api/game/history")
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.StatusCode()).To(Equal(http.StatusOK))
		Expect(body.Events).To(HaveLen(len(hist) - 2))
		Expect(body.Events[0].Seq).To(Equal(3))
		Expect(body.Events[len(body.Events)-1].Text).To(Equal("Mafia wins!"))
		Expect(hist).To(ContainElement("Ann: Tom looks nervous."))
	})

	It("rejects a malformed sequence number", func() {
		resp, err := client.R().SetContext(ctx).SetQueryParam("since", "-4").Get("/api/game/history")
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.StatusCode()).To(Equal(http.StatusBadRequest))
		Expect(resp.String()).To(ContainSubstring("invalid_since"))
	})
})
