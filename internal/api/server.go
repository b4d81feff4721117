// Package api exposes the shop engine over HTTP: a JSON command/query
// surface plus a websocket event feed. Query endpoints are public; admin
// endpoints require a bearer key.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/velobay/shopsim/internal/repair"
	"github.com/velobay/shopsim/internal/shop"
)

// Server holds the HTTP surface around one shop.
type Server struct {
	shop     *shop.Shop
	hub      *Hub
	adminKey string // empty disables the admin routes
}

// NewServer builds the API server. The hub must already be running.
func NewServer(s *shop.Shop, hub *Hub, adminKey string) *Server {
	return &Server{shop: s, hub: hub, adminKey: adminKey}
}

// Router builds the route tree.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/api/status", s.handleStatus)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(s.hub, w, r)
	})

	commands := NewRateLimiter(120, time.Minute)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/catalog", s.handleCatalog)

		r.Get("/inventory", s.handleInventory)
		r.Get("/inventory/report", s.handleInventoryReport)

		r.Get("/customers", s.handleCustomers)
		r.Get("/repairs", s.handleRepairJobs)

		r.Group(func(r chi.Router) {
			r.Use(commands.Middleware)

			r.Post("/inventory/purchase", s.handlePurchase)
			r.Post("/inventory/sell", s.handleSell)
			r.Post("/inventory/clear", s.handleClearStagnant)

			r.Post("/customers/generate", s.handleGenerateCustomer)
			r.Post("/customers/{id}/interact", s.handleInteract)
			r.Post("/customers/{id}/recommend", s.handleRecommend)
			r.Post("/customers/{id}/purchase", s.handleBeginPurchase)
			r.Post("/customers/{id}/complete", s.handleCompleteTransaction)
			r.Post("/customers/{id}/abandon", s.handleAbandon)

			r.Post("/repairs", s.handleCreateRepair)
			r.Post("/repairs/{id}/execute", s.handleExecuteRepair)
			r.Post("/repairs/{id}/cancel", s.handleCancelRepair)

			r.Post("/day/advance", s.handleAdvanceDay)
			r.Post("/save", s.handleSave)
			r.Post("/load", s.handleLoad)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Post("/newgame", s.handleNewGame)
			r.Delete("/save", s.handleDeleteSave)
		})
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

// requireAdmin gates a route group behind the bearer admin key. With no key
// configured the group is unreachable.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.adminKey == "" || r.Header.Get("Authorization") != "Bearer "+s.adminKey {
			writeError(w, unauthorized())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.shop.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"day":    st.Day,
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.shop.State())
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat := s.shop.Catalog()
	writeJSON(w, http.StatusOK, map[string]any{
		"items":  cat.Items,
		"brands": cat.Brands,
	})
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.shop.InventoryRecords())
}

func (s *Server) handleInventoryReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.shop.InventoryReport())
}

type tradeRequest struct {
	ItemID    string `json:"item_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unit_price"`
}

func (t tradeRequest) validate() error {
	if t.ItemID == "" || t.Quantity <= 0 || t.UnitPrice < 0 {
		return badRequest("item_id, positive quantity and non-negative unit_price are required")
	}
	return nil
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := s.shop.Purchase(req.ItemID, req.Quantity, req.UnitPrice); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.shop.State())
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := s.shop.Sell(req.ItemID, req.Quantity, req.UnitPrice); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.shop.State())
}

func (s *Server) handleClearStagnant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID   string  `json:"item_id"`
		Discount float64 `json:"discount"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.ItemID == "" {
		writeError(w, badRequest("item_id is required"))
		return
	}
	if err := s.shop.ClearStagnant(req.ItemID, req.Discount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.shop.State())
}

func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.shop.Customers())
}

func (s *Server) handleGenerateCustomer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, s.shop.GenerateCustomer())
}

func (s *Server) handleInteract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Choice string `json:"choice"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.shop.InteractCustomer(chi.URLParam(r, "id"), req.Choice); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID string `json:"item_id"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.ItemID == "" {
		writeError(w, badRequest("item_id is required"))
		return
	}
	rec, err := s.shop.Recommend(chi.URLParam(r, "id"), req.ItemID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleBeginPurchase(w http.ResponseWriter, r *http.Request) {
	if err := s.shop.BeginPurchase(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleCompleteTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID string `json:"item_id"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.ItemID == "" {
		writeError(w, badRequest("item_id is required"))
		return
	}
	if err := s.shop.CompleteTransaction(chi.URLParam(r, "id"), req.ItemID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.shop.State())
}

func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	if err := s.shop.AbandonCustomer(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.shop.State())
}

func (s *Server) handleRepairJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.shop.RepairJobs())
}

func (s *Server) handleCreateRepair(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type       repair.Type `json:"type"`
		CustomerID string      `json:"customer_id"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Type == "" {
		writeError(w, badRequest("type is required"))
		return
	}
	job, err := s.shop.CreateRepairJob(req.Type, req.CustomerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) handleExecuteRepair(w http.ResponseWriter, r *http.Request) {
	res, err := s.shop.ExecuteRepair(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCancelRepair(w http.ResponseWriter, r *http.Request) {
	if err := s.shop.CancelRepair(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleAdvanceDay(w http.ResponseWriter, r *http.Request) {
	if err := s.shop.AdvanceDay(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.shop.State())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.shop.Save(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	res, err := s.shop.Load()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":                   res.OK,
		"restored_from_backup": res.RestoredFromBackup,
		"error_message":        res.ErrorMessage,
		"state":                s.shop.State(),
	})
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	s.shop.NewGame()
	writeJSON(w, http.StatusOK, s.shop.State())
}

func (s *Server) handleDeleteSave(w http.ResponseWriter, r *http.Request) {
	s.shop.DeleteSave()
	writeJSON(w, http.StatusOK, nil)
}
