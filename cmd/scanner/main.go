// Command scanner is the keyboard-wedge client: it reads raw key input from
// stdin, reconstructs barcode tokens, and applies or reports movements
// against the shared store.
package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"histock/internal/config"
	"histock/internal/database"
	"histock/internal/feed"
	"histock/internal/logger"
	"histock/internal/model"
	"histock/internal/repository"
	"histock/internal/scan"
	"histock/internal/service"
	"histock/internal/tracer"
)

func main() {
	modeFlag := flag.String("mode", "manual", "scan mode: manual, in or out")
	userFlag := flag.String("user", "System", "acting user recorded on ledger entries")
	flag.Parse()

	globalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Instance()
	cfg := config.Instance()

	mode := model.ScanMode(*modeFlag)
	if !mode.Valid() {
		log.Error("Unknown scan mode", slog.String("mode", *modeFlag))
		os.Exit(1)
	}

	shutdown, _ := tracer.Instance(globalCtx)
	defer shutdown()

	db, err := database.Instance(globalCtx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Error("Failed to connect to MongoDB", slog.String("error", err.Error()))
		os.Exit(1)
	}

	productRepo := repository.NewProductRepository(db.Database)
	transactionRepo := repository.NewTransactionRepository(db.Database, cfg.TransactionFeedLimit)
	settingsRepo := repository.NewSettingsRepository(db.Database)

	sync := feed.NewSynchronizer(productRepo, transactionRepo, settingsRepo)
	go sync.Run(globalCtx)

	inventory := service.NewInventoryService(productRepo, transactionRepo, sync.Products())

	select {
	case <-sync.Ready():
	case <-time.After(10 * time.Second):
		log.Warn("No product snapshot yet, scans may not resolve")
	case <-globalCtx.Done():
		return
	}

	log.Info("Scanner ready", slog.String("mode", string(mode)), slog.String("user", *userFlag))

	decoder := scan.NewDecoder()
	defer decoder.Close()

	reader := bufio.NewReader(os.Stdin)
	for {
		if globalCtx.Err() != nil {
			return
		}
		r, _, err := reader.ReadRune()
		if err == io.EOF {
			return
		}
		if err != nil {
			log.Error("Read failed", slog.String("error", err.Error()))
			return
		}

		ev := scan.KeyEvent{Rune: r, At: time.Now()}
		if r == '\n' || r == '\r' {
			ev = scan.KeyEvent{Commit: true, At: ev.At}
		}
		token, ok := decoder.Feed(ev)
		if !ok {
			continue
		}
		// Tokens decoded after shutdown must not be applied.
		if globalCtx.Err() != nil {
			return
		}
		handleToken(globalCtx, token, mode, *userFlag, sync.Products(), inventory)
	}
}

func handleToken(ctx context.Context, token string, mode model.ScanMode, user string, products *feed.ProductProjection, inventory *service.InventoryService) {
	log := logger.Instance()

	outcome := scan.Dispatch(token, mode, products)
	switch outcome.Kind {
	case scan.OutcomeNoMatch:
		log.Warn("SKU not found", slog.String("token", token))
	case scan.OutcomeConfirm:
		// Manual mode on a terminal: report the match, leave quantity and
		// direction to the form-driven surface.
		log.Info("Matched product",
			slog.String("sku", outcome.Product.SKU),
			slog.String("name", outcome.Product.Name),
			slog.Int("stock", outcome.Product.Stock),
		)
	case scan.OutcomeAutoApply:
		t, err := inventory.Apply(ctx, service.ApplyInput{
			ProductID: outcome.Product.SKU,
			Type:      outcome.Type,
			Quantity:  1,
			Note:      "Auto-scan",
			Actor:     user,
		})
		if err != nil {
			log.Error("Movement rejected",
				slog.String("sku", outcome.Product.SKU),
				slog.String("error", err.Error()),
			)
			return
		}
		log.Info("Movement applied",
			slog.String("sku", t.ProductID),
			slog.String("name", t.ProductName),
			slog.String("type", string(t.Type)),
			slog.Int("quantity", t.Quantity),
		)
	}
}
