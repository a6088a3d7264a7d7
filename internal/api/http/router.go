// Package http exposes the rental marketplace over a JSON API.
package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"peerrent-backend/internal/realtime"
	"peerrent-backend/internal/security"
	"peerrent-backend/internal/service"
)

// RouterDeps collects everything the router wires together.
type RouterDeps struct {
	Tokens        security.TokenManager
	Rentals       service.RentalService
	Availability  service.AvailabilityService
	Payments      service.PaymentService
	Returns       service.ReturnService
	Products      service.ProductService
	Notifications service.NotificationService
	Hub           *realtime.Hub
}

func NewRouter(deps RouterDeps) *mux.Router {
	rentals := newRentalHandler(deps.Rentals, deps.Availability)
	payments := newPaymentHandler(deps.Payments)
	returns := newReturnHandler(deps.Returns)
	products := newProductHandler(deps.Products)
	notifications := newNotificationHandler(deps.Notifications)
	ws := newWSHandler(deps.Hub)

	root := mux.NewRouter()
	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	auth := authMiddleware(deps.Tokens)

	api := root.PathPrefix("/api/v1").Subrouter()
	api.Use(auth)

	api.HandleFunc("/rentals", rentals.create).Methods(http.MethodPost)
	api.HandleFunc("/rentals", rentals.list).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}", rentals.get).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}/approve", rentals.approve).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/reject", rentals.reject).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/cancel", rentals.cancel).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/complete", rentals.complete).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/invoice", payments.getInvoice).Methods(http.MethodGet)

	api.HandleFunc("/products", products.create).Methods(http.MethodPost)
	api.HandleFunc("/products", products.list).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}", products.get).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}", products.update).Methods(http.MethodPut)
	api.HandleFunc("/products/{id:[0-9]+}/availability", rentals.checkAvailability).Methods(http.MethodGet)

	api.HandleFunc("/payments", payments.create).Methods(http.MethodPost)
	api.HandleFunc("/payments/{id:[0-9]+}", payments.get).Methods(http.MethodGet)
	api.HandleFunc("/payments/{id:[0-9]+}/confirm", payments.confirm).Methods(http.MethodPost)

	api.HandleFunc("/returns", returns.initiate).Methods(http.MethodPost)
	api.HandleFunc("/returns/{id:[0-9]+}", returns.get).Methods(http.MethodGet)
	api.HandleFunc("/returns/{id:[0-9]+}/progress", returns.progress).Methods(http.MethodPost)
	api.HandleFunc("/returns/{id:[0-9]+}/confirm", returns.confirm).Methods(http.MethodPost)
	api.HandleFunc("/returns/{id:[0-9]+}/damage", returns.recordDamage).Methods(http.MethodPost)

	api.HandleFunc("/notifications", notifications.list).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id:[0-9]+}/read", notifications.markRead).Methods(http.MethodPost)
	api.HandleFunc("/devices", notifications.registerDevice).Methods(http.MethodPost)
	api.HandleFunc("/devices/{id:[0-9]+}", notifications.removeDevice).Methods(http.MethodDelete)

	wsRoute := root.PathPrefix("/ws").Subrouter()
	wsRoute.Use(auth)
	wsRoute.HandleFunc("", ws.serve).Methods(http.MethodGet)

	return root
}
