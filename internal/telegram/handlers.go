package telegram

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"cryptoKeepBot/internal/portfolio"
	"cryptoKeepBot/internal/storage"
)

var (
	rePortfolio = regexp.MustCompile(`^/portfolio(?:@[\w_]+)?$`)
	// /add SYMBOL AMOUNT
	reAdd = regexp.MustCompile(`^/add(?:@[\w_]+)?\s+([A-Za-z0-9]+)\s+([0-9]*\.?[0-9]+)$`)
	// /amount SYMBOL VALUE (zero or negative deletes the holding)
	reAmount = regexp.MustCompile(`^/amount(?:@[\w_]+)?\s+([A-Za-z0-9]+)\s+(-?[0-9]*\.?[0-9]+)$`)
	// /remove SYMBOL
	reRemove = regexp.MustCompile(`^/remove(?:@[\w_]+)?\s+([A-Za-z0-9]+)$`)
	// /coin SYMBOL
	reCoin    = regexp.MustCompile(`^/coin(?:@[\w_]+)?\s+([A-Za-z0-9]+)$`)
	reRefresh = regexp.MustCompile(`^/refresh(?:@[\w_]+)?$`)
	reRecap   = regexp.MustCompile(`^/recap(?:@[\w_]+)?$`)
	reHelp    = regexp.MustCompile(`^/(help|start)(?:@[\w_]+)?$`)
)

type Handlers struct {
	api  *tgbotapi.BotAPI
	deps Deps

	mu   sync.Mutex
	last *portfolio.Update
}

func NewHandlers(api *tgbotapi.BotAPI, deps Deps) *Handlers {
	return &Handlers{api: api, deps: deps}
}

// OnUpdate remembers the latest refresh result so commands can fall back to
// it when the feed is unreachable.
func (h *Handlers) OnUpdate(u portfolio.Update) {
	h.mu.Lock()
	h.last = &u
	h.mu.Unlock()
}

func (h *Handlers) lastUpdate() (portfolio.Update, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last == nil {
		return portfolio.Update{}, false
	}
	return *h.last, true
}

func (h *Handlers) HandleMessage(m *tgbotapi.Message) {
	txt := strings.TrimSpace(m.Text)
	switch {
	case rePortfolio.MatchString(txt):
		h.handlePortfolio(m.Chat.ID)

	case reAdd.MatchString(txt):
		g := reAdd.FindStringSubmatch(txt)
		h.handleAdd(m.Chat.ID, strings.ToUpper(g[1]), g[2])

	case reAmount.MatchString(txt):
		g := reAmount.FindStringSubmatch(txt)
		h.handleAmount(m.Chat.ID, strings.ToUpper(g[1]), g[2])

	case reRemove.MatchString(txt):
		g := reRemove.FindStringSubmatch(txt)
		h.handleRemove(m.Chat.ID, strings.ToUpper(g[1]))

	case reCoin.MatchString(txt):
		g := reCoin.FindStringSubmatch(txt)
		h.handleCoin(m.Chat.ID, strings.ToUpper(g[1]))

	case reRefresh.MatchString(txt):
		h.reply(m.Chat.ID, "Refreshing…")
		h.deps.Sched.Trigger()

	case reRecap.MatchString(txt):
		h.handleRecap(m.Chat.ID)

	case reHelp.MatchString(txt):
		h.handleHelp(m.Chat.ID)
	}
}

func (h *Handlers) handlePortfolio(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	holdings, err := h.deps.Store.List()
	if err != nil {
		log.Printf("telegram: holdings load failed: %v", err)
		h.reply(chatID, "Portfolio unavailable right now, try again shortly.")
		return
	}
	if len(holdings) == 0 {
		h.reply(chatID, "No holdings yet. Add one with /add BTC 0.5")
		return
	}

	var summary portfolio.Summary
	haveChange := true
	if snap, err := h.deps.Gateway.FetchPrices(ctx); err != nil {
		log.Printf("telegram: price fetch failed, showing stale values: %v", err)
		if u, ok := h.lastUpdate(); ok {
			holdings, summary = u.Holdings, u.Summary
		} else {
			var total float64
			for _, hd := range holdings {
				total += hd.Amount * hd.PriceUSD
			}
			summary = portfolio.Summary{TotalValue: total * h.deps.Rates.Rate()}
			haveChange = false
		}
	} else {
		holdings, summary = h.deps.Engine.Valuate(holdings, snap, h.deps.Rates.Rate())
	}

	text := "Total: " + portfolio.FormatCNY(summary.TotalValue)
	if haveChange {
		text += fmt.Sprintf("\n24h: %+.2f%% (%s)", summary.ChangePercent, portfolio.FormatCNY(summary.ChangeAmount))
	}
	text += "\n\n" + strings.Join(h.holdingLines(holdings), "\n")

	if img, ok := h.deps.Widget.Card(ctx); ok {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "portfolio.png", Bytes: img})
		photo.Caption = text
		h.api.Send(photo)
		return
	}
	h.reply(chatID, text)
}

func (h *Handlers) handleAdd(chatID int64, sym, amountStr string) {
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil || amount <= 0 {
		h.reply(chatID, "Amount must be a positive number, e.g. /add BTC 0.5")
		return
	}

	name := sym
	if tok, ok := portfolio.LookupToken(sym); ok {
		name = tok.Name
	}

	// fetch a fresh price before recording, like the price shown in the row
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	snap, err := h.deps.Gateway.FetchPrices(ctx)
	if err != nil {
		log.Printf("telegram: price fetch on add failed: %v", err)
		h.reply(chatID, "Couldn't fetch the current price, try again shortly.")
		return
	}
	price := 0.0
	if q, ok := snap[sym]; ok {
		price, _ = q.Price()
	}

	existing, err := h.deps.Store.Get(sym)
	if err == nil && existing != nil {
		existing.Amount += amount
		existing.PriceUSD = price
		existing.UpdatedAt = time.Now()
		err = h.deps.Store.Upsert(*existing)
	} else if err == nil {
		err = h.deps.Store.Upsert(storage.Holding{
			Symbol:    sym,
			Name:      name,
			Amount:    amount,
			PriceUSD:  price,
			UpdatedAt: time.Now(),
		})
	}
	if err != nil {
		log.Printf("telegram: add %s failed: %v", sym, err)
		h.reply(chatID, "Add failed, try again shortly.")
		return
	}
	h.reply(chatID, fmt.Sprintf("Added %s %s", trimAmount(amount), sym))
	h.afterMutation()
}

func (h *Handlers) handleAmount(chatID int64, sym, valueStr string) {
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		h.reply(chatID, "Value must be a number, e.g. /amount BTC 0.75")
		return
	}
	if value <= 0 {
		h.handleRemove(chatID, sym)
		return
	}
	existing, err := h.deps.Store.Get(sym)
	if err != nil {
		log.Printf("telegram: amount lookup %s failed: %v", sym, err)
		h.reply(chatID, "Update failed, try again shortly.")
		return
	}
	if existing == nil {
		h.reply(chatID, fmt.Sprintf("No %s holding. Add one with /add %s %s", sym, sym, valueStr))
		return
	}
	existing.Amount = value
	existing.UpdatedAt = time.Now()
	if err := h.deps.Store.Upsert(*existing); err != nil {
		log.Printf("telegram: amount update %s failed: %v", sym, err)
		h.reply(chatID, "Update failed, try again shortly.")
		return
	}
	h.reply(chatID, fmt.Sprintf("%s amount set to %s", sym, trimAmount(value)))
	h.afterMutation()
}

func (h *Handlers) handleRemove(chatID int64, sym string) {
	if err := h.deps.Store.Delete(sym); err != nil {
		log.Printf("telegram: remove %s failed: %v", sym, err)
		h.reply(chatID, "Remove failed, try again shortly.")
		return
	}
	h.reply(chatID, "Removed "+sym)
	h.afterMutation()
}

func (h *Handlers) handleCoin(chatID int64, sym string) {
	tok, ok := portfolio.LookupToken(sym)
	if !ok {
		h.reply(chatID, sym+" is not in the supported token list.")
		return
	}
	caption := tok.Name + " (" + tok.Symbol + ")"
	if pc, ok := h.deps.Engine.PriceChange(tok.Symbol); ok {
		caption += fmt.Sprintf(" • %+.2f%% 24h", pc)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	img, ok := h.deps.Loader.Load(ctx, tok.LogoURL)
	if !ok {
		h.reply(chatID, caption)
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: tok.Symbol + ".png", Bytes: img})
	photo.Caption = caption
	h.api.Send(photo)
}

func (h *Handlers) handleRecap(chatID int64) {
	holdings, err := h.deps.Store.List()
	if err != nil {
		log.Printf("telegram: recap holdings load failed: %v", err)
		h.reply(chatID, "Recap unavailable right now.")
		return
	}
	lines := h.holdingLines(holdings)
	if u, ok := h.lastUpdate(); ok {
		lines = append(lines, fmt.Sprintf("Total %s, 24h %+.2f%%", portfolio.FormatCNY(u.Summary.TotalValue), u.Summary.ChangePercent))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()
	out, err := h.deps.Recap.Recap(ctx, lines)
	if err != nil {
		log.Printf("telegram: recap failed: %v", err)
		h.reply(chatID, "Recap failed, try again shortly.")
		return
	}
	h.reply(chatID, out)
}

func (h *Handlers) handleHelp(chatID int64) {
	help := "Commands\n\n" +
		"- /portfolio - Current holdings, total value and 24h change\n" +
		"- /add SYMBOL AMOUNT - Record a holding (merges into an existing one)\n" +
		"- /amount SYMBOL VALUE - Set a holding's amount; 0 removes it\n" +
		"- /remove SYMBOL - Remove a holding\n" +
		"- /coin SYMBOL - Coin logo and last 24h move\n" +
		"- /refresh - Refresh prices now\n" +
		"- /recap - Short natural-language portfolio recap\n" +
		"\nValues are shown in CNY using the live USDT reference rate."
	h.reply(chatID, help)
}

// holdingLines renders one display row per holding with the last known 24h
// change where one was ever observed.
func (h *Handlers) holdingLines(holdings []storage.Holding) []string {
	rate := h.deps.Rates.Rate()
	out := make([]string, 0, len(holdings))
	for _, hd := range holdings {
		line := fmt.Sprintf("%s: %s %s = %s", hd.Name, trimAmount(hd.Amount), hd.Symbol,
			portfolio.FormatCNY(hd.Amount*hd.PriceUSD*rate))
		if pc, ok := h.deps.Engine.PriceChange(hd.Symbol); ok {
			line += fmt.Sprintf(" (%+.2f%% 24h)", pc)
		}
		out = append(out, line)
	}
	return out
}

// afterMutation refreshes downstream surfaces after a holdings change, the
// same way the app reloads its widget after every edit.
func (h *Handlers) afterMutation() {
	h.deps.Sched.Trigger()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		h.deps.Widget.Refresh(ctx)
	}()
}

func trimAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (h *Handlers) reply(chatID int64, text string) {
	h.api.Send(tgbotapi.NewMessage(chatID, text))
}
