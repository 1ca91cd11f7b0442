package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/kilobco/sb-voice-agent/internal/agent"
	"github.com/kilobco/sb-voice-agent/internal/config"
	"github.com/kilobco/sb-voice-agent/internal/media"
	"github.com/kilobco/sb-voice-agent/internal/model"
	"github.com/kilobco/sb-voice-agent/internal/session"
	"github.com/kilobco/sb-voice-agent/internal/store"
	"github.com/kilobco/sb-voice-agent/internal/telephony"
	"github.com/kilobco/sb-voice-agent/internal/transfer"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic.
func registerRoutes(r *gin.Engine, d *appDeps) {
	r.GET("/health", d.handleHealth)

	// Twilio voice webhook (public).
	webhook := telephony.WebhookHandler{PublicHost: d.cfg.App.PublicHost}
	if d.rdb != nil {
		webhook.Dedup = telephony.RedisDeduper{Client: d.rdb}
	}
	r.POST("/twiml", webhook.HandleVoice)

	// Twilio Media Streams WebSocket.
	r.GET("/stream", d.handleStream)
}

type appDeps struct {
	cfg       config.Config
	rdb       *redis.Client
	store     store.Gateway
	registry  *session.Registry
	transfer  *transfer.Controller
	log       *slog.Logger
	startedAt time.Time

	systemInstruction string
}

func (d *appDeps) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"uptime":   int(time.Since(d.startedAt) / time.Second),
		"sessions": d.registry.Count(),
	})
}

var upgrader = websocket.Upgrader{
	// Twilio does not send a browser Origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleStream upgrades the media socket and spins up a session. Identity
// arrives with the start frame; until then the session idles in INIT.
//
// The model service only allows a handful of concurrent live sessions per
// key, so calls beyond the cap are rejected here instead of dying
// mid-greeting. One process owns all sessions, so the registry count is the
// authority.
func (d *appDeps) handleStream(c *gin.Context) {
	if d.registry.Count() >= d.cfg.App.MaxSessions {
		d.log.Warn("session cap reached, rejecting call", "cap", d.cfg.App.MaxSessions)
		c.AbortWithStatus(http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		d.log.Warn("stream upgrade failed", "err", err)
		return
	}

	leg := media.NewLeg(conn, d.log)
	s := session.New(session.Config{
		Store:          d.store,
		Transfer:       d.transfer,
		Registry:       d.registry,
		DialModel:      d.dialModel,
		RestaurantID:   d.cfg.Restaurant.ID,
		TransferNumber: d.cfg.Restaurant.TransferNumber,
		Log:            d.log,
	}, leg)

	go leg.ReadLoop(s)
}

func (d *appDeps) dialModel(ctx context.Context, h model.Handler) (session.ModelConn, error) {
	return model.Connect(ctx, model.Config{
		APIKey:            d.cfg.Gemini.APIKey,
		Model:             d.cfg.Gemini.Model,
		Voice:             d.cfg.Gemini.Voice,
		SystemInstruction: d.systemInstruction,
		GreetingPrompt:    agent.GreetingPrompt,
		Tools:             agent.Declarations(),
		Log:               d.log,
	}, h)
}
