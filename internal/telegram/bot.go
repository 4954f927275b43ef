package telegram

import (
	"encoding/json"
	"log"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"cryptoKeepBot/internal/assets"
	"cryptoKeepBot/internal/market"
	"cryptoKeepBot/internal/openai"
	"cryptoKeepBot/internal/portfolio"
	"cryptoKeepBot/internal/storage"
	"cryptoKeepBot/internal/widget"
)

// Deps collects everything the command handlers reach into.
type Deps struct {
	Store   *storage.Store
	Gateway *market.Client
	Engine  *portfolio.Engine
	Rates   *portfolio.Rates
	Sched   *portfolio.Scheduler
	Loader  *assets.Loader
	Widget  *widget.Widget
	Recap   *openai.Recap
}

type Bot struct {
	api *tgbotapi.BotAPI
	h   *Handlers
}

func NewBot(token, webhookURL string, deps Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	// set webhook
	webhook, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, err
	}
	if _, err := api.Request(webhook); err != nil {
		return nil, err
	}
	log.Printf("telegram: webhook set to %s", webhookURL)

	return &Bot{api: api, h: NewHandlers(api, deps)}, nil
}

// OnUpdate forwards refresh results to the handlers' last-known state.
func (b *Bot) OnUpdate(u portfolio.Update) { b.h.OnUpdate(u) }

// Webhook HTTP handler (registered at /telegram/webhook)
func (b *Bot) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "bad update", 400)
		return
	}
	if update.Message != nil {
		log.Printf("webhook: chat_id=%d from=%d text=%q", update.Message.Chat.ID, update.Message.From.ID, update.Message.Text)
		go b.h.HandleMessage(update.Message)
	} else {
		log.Printf("webhook: non-message update received")
	}
	w.WriteHeader(http.StatusOK)
}
