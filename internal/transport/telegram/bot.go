package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sandevgo/pixbot/internal/config"
	"github.com/sandevgo/pixbot/internal/core"
	"github.com/sandevgo/pixbot/internal/service/agent"
	"github.com/sandevgo/pixbot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type Bot struct {
	bot     *tele.Bot
	cfg     *config.TelegramConfig
	agent   *agent.Agent
	sender  *sender
	ownerID int64

	mu       sync.Mutex
	sessions map[int64]string // chat id -> session id
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	agent *agent.Agent,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:      b,
		cfg:      cfg,
		agent:    agent,
		sender:   newSender(b),
		ownerID:  cfg.OwnerID,
		sessions: make(map[int64]string),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: Only allow the owner
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender().ID != bot.ownerID {
				return nil // Ignore unauthorized users
			}
			return next(c)
		}
	})

	b.Handle("/status", bot.handleStatus)
	b.Handle("/new", bot.handleNewSession)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	b.mu.Lock()
	sessionID := b.sessions[c.Chat().ID]
	b.mu.Unlock()

	resp, err := b.agent.Chat(ctx, agent.ChatRequest{
		Query:     c.Text(),
		SessionID: sessionID,
		UserID:    fmt.Sprintf("telegram-%d", c.Chat().ID),
	})
	if err != nil {
		logger.Error().Err(err).Msg("chat turn failed")
		return c.Send(fmt.Sprintf("error: %v", err))
	}

	b.mu.Lock()
	b.sessions[c.Chat().ID] = resp.SessionID
	b.mu.Unlock()

	return b.sender.sendMarkdown(ctx, c.Chat(), formatResponse(resp), false)
}

func (b *Bot) handleStatus(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	status := b.agent.Status(ctx)

	var sb strings.Builder
	sb.WriteString("**System status**\n")
	sb.WriteString(fmt.Sprintf("- search: %s\n", onOff(status.SearchService)))
	sb.WriteString(fmt.Sprintf("- storage: %s\n", onOff(status.StorageService)))
	sb.WriteString(fmt.Sprintf("- vectors: %s\n", onOff(status.VectorService)))
	sb.WriteString(fmt.Sprintf("- embedder: %s\n", onOff(status.EmbeddingService)))
	sb.WriteString(fmt.Sprintf("- images: %d, vectors: %d\n", status.TotalImages, status.TotalVectors))

	return b.sender.sendMarkdown(ctx, c.Chat(), sb.String(), true)
}

func (b *Bot) handleNewSession(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)

	id := b.agent.CreateSession(fmt.Sprintf("telegram-%d", c.Chat().ID))
	b.mu.Lock()
	b.sessions[c.Chat().ID] = id
	b.mu.Unlock()

	return b.sender.sendMarkdown(ctx, c.Chat(), "Started a fresh conversation.", true)
}

// formatResponse renders one chat turn as Markdown: answer, top matches,
// then suggestions.
func formatResponse(resp agent.ChatResponse) string {
	var sb strings.Builder
	sb.WriteString(resp.Answer)

	if images, ok := resp.Results["images"].([]core.Match); ok && len(images) > 0 {
		sb.WriteString("\n")
		for i, m := range images {
			name := m.Filename
			if name == "" {
				name = m.ImageID
			}
			sb.WriteString(fmt.Sprintf("\n%d. **%s** (%.2f)", i+1, name, m.Score))
			if m.Description != "" {
				sb.WriteString(" - " + m.Description)
			}
		}
	}

	if len(resp.Suggestions) > 0 {
		sb.WriteString("\n")
		for _, s := range resp.Suggestions {
			sb.WriteString("\n- " + s)
		}
	}
	return sb.String()
}

func onOff(ok bool) string {
	if ok {
		return "ok"
	}
	return "down"
}
