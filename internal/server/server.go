package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/madplan/kurv/internal/backup"
	"github.com/madplan/kurv/internal/handler"
	"github.com/madplan/kurv/internal/middleware"
	"github.com/madplan/kurv/internal/store"
	ws "github.com/madplan/kurv/internal/websocket"
)

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	shoppingH     *handler.ShoppingHandler
	offerH        *handler.OfferHandler
	backupH       *handler.BackupHandler
	backupManager *backup.Manager
	logger        *slog.Logger
}

func New(db *sql.DB, backupCfg backup.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	shoppingStore := store.NewShoppingStore(db)
	offerStore := store.NewOfferStore(db)
	backupStore := store.NewBackupStore(db)

	backupMgr := backup.NewManager(backupCfg, db, backupStore, logger.With("component", "backup"))

	return &Server{
		db:            db,
		hub:           hub,
		shoppingH:     handler.NewShoppingHandler(shoppingStore, offerStore, hub, logger.With("component", "shopping")),
		offerH:        handler.NewOfferHandler(offerStore, logger.With("component", "offers")),
		backupH:       handler.NewBackupHandler(backupMgr, backupStore, logger.With("component", "backup_handler")),
		backupManager: backupMgr,
		logger:        logger,
	}
}

// BackupManager exposes the manager so main can run its schedule loop.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	// Shopping list
	mux.HandleFunc("GET /api/shopping-list", s.shoppingH.GetActiveList)
	mux.HandleFunc("POST /api/shopping-list/new", s.shoppingH.NewList)
	mux.HandleFunc("GET /api/shopping-list/items", s.shoppingH.ListItems)
	mux.HandleFunc("POST /api/shopping-list/items", s.shoppingH.CreateItem)
	mux.HandleFunc("POST /api/shopping-list/items/{id}/toggle", s.shoppingH.ToggleItem)
	mux.HandleFunc("DELETE /api/shopping-list/items/{id}", s.shoppingH.DeleteItem)
	mux.HandleFunc("POST /api/shopping-list/clear-checked", s.shoppingH.ClearChecked)
	mux.HandleFunc("POST /api/shopping-list/clear", s.shoppingH.ClearAll)
	mux.HandleFunc("GET /api/shopping-list/stats", s.shoppingH.Stats)
	mux.HandleFunc("GET /api/shopping-list/by-category", s.shoppingH.ByCategory)
	mux.HandleFunc("GET /api/shopping-list/badge", s.shoppingH.Badge)

	// Imports
	mux.HandleFunc("POST /api/shopping-list/import/meal-plan", s.shoppingH.ImportMealPlan)
	mux.HandleFunc("POST /api/shopping-list/import/offers", s.shoppingH.ImportOffers)

	// Offer catalog
	mux.HandleFunc("GET /api/offers", s.offerH.List)
	mux.HandleFunc("PUT /api/offers", s.offerH.Upsert)

	// Backups
	mux.HandleFunc("GET /api/backups", s.backupH.History)
	mux.HandleFunc("GET /api/backups/status", s.backupH.Status)
	mux.HandleFunc("POST /api/backups/run", s.backupH.Run)

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
