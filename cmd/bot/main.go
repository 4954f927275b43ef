package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"cryptoKeepBot/internal/assets"
	"cryptoKeepBot/internal/config"
	"cryptoKeepBot/internal/market"
	"cryptoKeepBot/internal/openai"
	"cryptoKeepBot/internal/portfolio"
	"cryptoKeepBot/internal/server"
	"cryptoKeepBot/internal/storage"
	"cryptoKeepBot/internal/telegram"
	"cryptoKeepBot/internal/widget"
)

const cacheRetention = 7 * 24 * time.Hour

func main() {
	cfg := config.Load()

	// Ensure parent directory for the DB exists
	_ = os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755)
	db, err := storage.OpenSQLite("file:" + cfg.DBPath + "?_fk=1")
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := storage.InitSchema(db); err != nil {
		log.Fatal(err)
	}
	log.Printf("db: holdings store ready at %s", cfg.DBPath)
	store := storage.NewStore(db)

	cache := assets.NewCache(cfg.CacheDir)
	cache.EvictExpired(cacheRetention)
	loader := assets.NewLoader(cache)

	gateway := market.NewClient(cfg.PriceAPIURL, cfg.FxAPIURL)
	rates := portfolio.NewRates()
	{
		// opportunistic startup refresh; the default rate holds on failure
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		rates.Refresh(ctx, gateway)
		cancel()
	}

	engine := portfolio.NewEngine()
	sched := portfolio.NewScheduler(gateway, store, engine, rates, cfg.RefreshEvery)
	wdg := widget.New(store, gateway, rates, cache, cfg.WidgetEvery)

	tg, err := telegram.NewBot(cfg.TelegramToken, cfg.WebhookPublicURL, telegram.Deps{
		Store:   store,
		Gateway: gateway,
		Engine:  engine,
		Rates:   rates,
		Sched:   sched,
		Loader:  loader,
		Widget:  wdg,
		Recap:   openai.NewRecap(cfg.OpenAIKey),
	})
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("telegram: bot initialized, webhook target %s", cfg.WebhookPublicURL)
	sched.Subscribe(tg.OnUpdate)

	go sched.Run(context.Background())
	go wdg.Run(context.Background())

	mux := server.NewHTTPMux(tg.WebhookHandler, wdg.Handler)
	addr := ":" + cfg.Port
	log.Println("http: listening on", addr)
	if err := server.ListenAndServe(addr, mux); err != nil {
		log.Println("server error:", err)
		os.Exit(1)
	}
}
