// Package http is the JSON API surface. Handlers parse and sanitize
// input, call the services, and wrap results in a uniform envelope; all
// domain rules live below this package.
package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hisab/internal/services"
	"hisab/internal/store"
)

type Server struct {
	http.Server

	catalogs store.CatalogStore
	expenses *services.EntryService
	savings  *services.EntryService
	balances *services.BalanceService
	accounts *services.AccountService
	games    *services.GameService

	ready func(context.Context) error
}

// NewServer wires the routes. The ready func backs /readyz; nil means
// always ready.
func NewServer(
	addr string,
	catalogs store.CatalogStore,
	expenses, savings *services.EntryService,
	balances *services.BalanceService,
	accounts *services.AccountService,
	games *services.GameService,
	ready func(context.Context) error,
) *Server {
	s := &Server{
		catalogs: catalogs,
		expenses: expenses,
		savings:  savings,
		balances: balances,
		accounts: accounts,
		games:    games,
		ready:    ready,
	}

	r := chi.NewRouter()
	r.Use(withRequestLogging)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(requireUser)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.handleListCategories)
			r.Post("/", s.handleCreateCategory)
			r.Get("/{id}", s.handleGetCategory)
			r.Put("/{id}", s.handleUpdateCategory)
			r.Delete("/{id}", s.handleDeleteCategory)
		})
		r.Route("/payment-methods", func(r chi.Router) {
			r.Get("/", s.handleListPaymentMethods)
			r.Post("/", s.handleCreatePaymentMethod)
			r.Get("/{id}", s.handleGetPaymentMethod)
			r.Put("/{id}", s.handleUpdatePaymentMethod)
			r.Delete("/{id}", s.handleDeletePaymentMethod)
		})
		r.Route("/amount-types", func(r chi.Router) {
			r.Get("/", s.handleListAmountTypes)
			r.Post("/", s.handleCreateAmountType)
			r.Get("/{id}", s.handleGetAmountType)
			r.Put("/{id}", s.handleUpdateAmountType)
			r.Delete("/{id}", s.handleDeleteAmountType)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", s.handleListEntries(s.expenses))
			r.Post("/", s.handleCreateEntry(s.expenses))
			r.Get("/stats", s.handleEntryStats(s.expenses))
			r.Get("/{id}", s.handleGetEntry(s.expenses))
			r.Patch("/{id}", s.handleUpdateEntry(s.expenses))
			r.Delete("/{id}", s.handleDeleteEntry(s.expenses))
		})
		r.Route("/savings", func(r chi.Router) {
			r.Get("/", s.handleListEntries(s.savings))
			r.Post("/", s.handleCreateEntry(s.savings))
			r.Get("/total", s.handleEntryTotal(s.savings))
			r.Get("/{id}", s.handleGetEntry(s.savings))
			r.Patch("/{id}", s.handleUpdateEntry(s.savings))
			r.Delete("/{id}", s.handleDeleteEntry(s.savings))
		})

		r.Route("/balances", func(r chi.Router) {
			r.Get("/", s.handleListMethodBalances)
			r.Get("/aggregate", s.handleGetAggregateBalance)
			r.Put("/aggregate", s.handleSetAggregateBalance)
			r.Get("/{paymentMethodID}", s.handleGetMethodBalance)
			r.Put("/{paymentMethodID}", s.handleSetMethodBalance)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", s.handleListAccounts)
			r.Post("/", s.handleCreateAccount)
			r.Get("/{id}", s.handleGetAccount)
			r.Post("/{id}/transactions", s.handleAddAccountTransaction)
			r.Delete("/{id}/transactions/{txnID}", s.handleRemoveAccountTransaction)
		})

		r.Route("/games/snake", func(r chi.Router) {
			r.Get("/", s.handleGetSnakeScores)
			r.Post("/", s.handleSubmitSnakeScore)
		})
	})

	s.Server = http.Server{Addr: addr, Handler: r}
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			respond(w, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
