package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"easyorder-core/internal/cart"
	"easyorder-core/internal/channel"
	"easyorder-core/internal/checkout"
	"easyorder-core/internal/domain"
	"easyorder-core/internal/escalation"
	"easyorder-core/internal/lifecycle"
	"easyorder-core/internal/receipt"
	"easyorder-core/internal/reconcile"
)

type Handler struct {
	Orders    OrderStore
	Catalog   MenuCatalog
	Carts     cart.Store
	Lifecycle Lifecycle
	Hub       *channel.Hub
	Tracker   *escalation.Tracker
	QR        receipt.QRGenerator

	TaxRate       float64
	ServiceFee    float64
	EventBuffer   int
	PollInterval  time.Duration
	RedirectDelay time.Duration
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.health).Methods("GET")

	r.HandleFunc("/api/sessions/{sessionId}/cart", h.getCart).Methods("GET")
	r.HandleFunc("/api/sessions/{sessionId}/cart/items", h.addCartItem).Methods("POST")
	r.HandleFunc("/api/sessions/{sessionId}/cart/items/{lineId}", h.updateCartItem).Methods("PUT")
	r.HandleFunc("/api/sessions/{sessionId}/cart/items/{lineId}", h.removeCartItem).Methods("DELETE")
	r.HandleFunc("/api/sessions/{sessionId}/checkout", h.checkout).Methods("POST")

	r.HandleFunc("/api/orders/{orderId}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{orderId}/track", h.trackOrder).Methods("GET")
	r.HandleFunc("/api/orders/{orderId}/qr", h.orderQR).Methods("GET")
	r.HandleFunc("/api/orders/{orderId}/status", h.updateOrderStatus).Methods("PUT")
	r.HandleFunc("/api/orders/{orderId}/accept", h.acceptOrder).Methods("POST")
	r.HandleFunc("/api/orders/{orderId}/reject", h.rejectOrder).Methods("POST")
	r.HandleFunc("/api/payments/callback", h.paymentCallback).Methods("POST")

	r.HandleFunc("/api/restaurants/{restaurantId}/menu", h.getMenu).Methods("GET")
	r.HandleFunc("/api/restaurants/{restaurantId}/orders", h.listOrders).Methods("GET")
	r.HandleFunc("/api/restaurants/{restaurantId}/events", h.streamEvents).Methods("GET")
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "order-engine",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// --- cart ---

type addCartItemRequest struct {
	RestaurantID string   `json:"restaurant_id"`
	MenuItemID   string   `json:"menu_item_id"`
	OptionIDs    []string `json:"option_ids"`
	Quantity     int      `json:"quantity"`
}

type cartResponse struct {
	Cart   domain.Cart   `json:"cart"`
	Totals domain.Totals `json:"totals"`
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := h.Catalog.Item(r.Context(), req.RestaurantID, req.MenuItemID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	asm := cart.NewAssembler(sessionID, req.RestaurantID, h.Carts, h.TaxRate, h.ServiceFee)
	if err := asm.Restore(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	if _, err := asm.AddSelection(r.Context(), item, req.OptionIDs, req.Quantity); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Cart: asm.Cart(), Totals: asm.Totals()})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	asm, err := cart.RestoreSession(r.Context(), mux.Vars(r)["sessionId"], h.Carts, h.TaxRate, h.ServiceFee)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Cart: asm.Cart(), Totals: asm.Totals()})
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	asm, err := cart.RestoreSession(r.Context(), vars["sessionId"], h.Carts, h.TaxRate, h.ServiceFee)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := asm.UpdateQuantity(r.Context(), vars["lineId"], req.Quantity); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Cart: asm.Cart(), Totals: asm.Totals()})
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	asm, err := cart.RestoreSession(r.Context(), vars["sessionId"], h.Carts, h.TaxRate, h.ServiceFee)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := asm.RemoveLine(r.Context(), vars["lineId"]); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Cart: asm.Cart(), Totals: asm.Totals()})
}

// --- checkout ---

type checkoutRequest struct {
	OrderType    string `json:"order_type"`
	PaymentType  string `json:"payment_type"`
	DeliveryAddr string `json:"delivery_address"`
	Currency     string `json:"currency"`
	Notes        string `json:"notes"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	asm, err := cart.RestoreSession(r.Context(), sessionID, h.Carts, h.TaxRate, h.ServiceFee)
	if err != nil {
		h.writeError(w, err)
		return
	}

	builder := checkout.NewBuilder(h.Orders, asm)
	order, err := builder.Submit(r.Context(), checkout.Fulfillment{
		Type:         domain.OrderType(req.OrderType),
		Payment:      domain.PaymentType(req.PaymentType),
		DeliveryAddr: req.DeliveryAddr,
		Currency:     req.Currency,
		Notes:        req.Notes,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.Lifecycle.AnnounceCreated(r.Context(), order)
	h.trackDeadline(r.Context(), order)

	writeJSON(w, http.StatusCreated, order)
}

// trackDeadline starts escalation recomputation for a new order against the
// restaurant's target fulfillment time.
func (h *Handler) trackDeadline(ctx context.Context, order domain.Order) {
	if h.Tracker == nil {
		return
	}
	minutes, err := h.Orders.RestaurantTarget(ctx, order.RestaurantID)
	if err != nil || minutes <= 0 {
		minutes = 30
	}
	h.Tracker.Track(order.ID, escalation.Deadline{
		CreatedAt: order.CreatedAt,
		Target:    time.Duration(minutes) * time.Minute,
	}, func(orderID string, e escalation.Escalation) {
		if e.Band == escalation.BandOverdue {
			log.Printf("order %s overdue by %d min", orderID, e.MinutesLate)
		}
	})
}

// --- orders ---

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.GetOrder(r.Context(), mux.Vars(r)["orderId"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// trackOrder drives the reconciliation loop server-side and streams the
// outcome to the confirmation page: "accepted" once the restaurant has taken
// the order (after the redirect delay), "closed" when it was cancelled,
// rejected or payment failed. The stream ends after a single outcome.
func (h *Handler) trackOrder(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	orderID := mux.Vars(r)["orderId"]

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	flusher.Flush()

	emit := func(event string) func(domain.Order) {
		return func(o domain.Order) {
			payload, err := json.Marshal(o)
			if err != nil {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
			flusher.Flush()
		}
	}

	poller := reconcile.NewPoller(h.Orders, h.PollInterval, h.RedirectDelay)
	if err := poller.Run(r.Context(), orderID, emit("accepted"), emit("closed")); err != nil &&
		!errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		log.Printf("tracking order %s failed: %v", orderID, err)
	}
}

func (h *Handler) orderQR(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]
	if _, err := h.Orders.GetOrder(r.Context(), orderID); err != nil {
		h.writeError(w, err)
		return
	}
	png, err := h.QR.Generate(orderID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListOrders(r.Context(), mux.Vars(r)["restaurantId"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	if r.URL.Query().Get("active") == "true" {
		// The kitchen display works CONFIRMED and PREPARING orders, oldest first.
		active := make([]domain.Order, 0, len(orders))
		for _, o := range orders {
			if o.Status == domain.StatusConfirmed || o.Status == domain.StatusPreparing {
				active = append(active, o)
			}
		}
		orders = active
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.Menu(r.Context(), mux.Vars(r)["restaurantId"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// --- staff actions ---

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	h.applyTransition(w, r, domain.OrderStatus(req.Status))
}

func (h *Handler) acceptOrder(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, domain.StatusConfirmed)
}

func (h *Handler) rejectOrder(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, domain.StatusRejected)
}

func (h *Handler) applyTransition(w http.ResponseWriter, r *http.Request, to domain.OrderStatus) {
	orderID := mux.Vars(r)["orderId"]
	changedBy := r.Header.Get("X-Staff-Name")

	order, err := h.Lifecycle.Transition(r.Context(), orderID, to, changedBy)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if lifecycle.Terminal(order.Status) {
		if h.Tracker != nil {
			h.Tracker.Stop(order.ID)
		}
		h.Lifecycle.Forget(order.ID)
	}
	writeJSON(w, http.StatusOK, order)
}

type paymentCallbackRequest struct {
	OrderID   string `json:"order_id"`
	Succeeded bool   `json:"succeeded"`
}

// paymentCallback handles the gateway's result. Failures drive the order to
// PAYMENT_FAILED; successes change nothing here, since auto-accept was already
// settled at creation time.
func (h *Handler) paymentCallback(w http.ResponseWriter, r *http.Request) {
	var req paymentCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Succeeded {
		writeJSON(w, http.StatusOK, map[string]string{"result": "ok"})
		return
	}
	order, err := h.Lifecycle.Transition(r.Context(), req.OrderID, domain.StatusPaymentFailed, "payment-gateway")
	if err != nil {
		h.writeError(w, err)
		return
	}
	if h.Tracker != nil {
		h.Tracker.Stop(order.ID)
	}
	h.Lifecycle.Forget(order.ID)
	writeJSON(w, http.StatusOK, order)
}

// --- events (SSE) ---

// streamEvents attaches the caller to the restaurant's channel and streams
// events until the client goes away. No replay on reconnect; clients re-fetch
// current orders after (re)joining.
func (h *Handler) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	restaurantID := mux.Vars(r)["restaurantId"]

	conn := channel.NewConnection(
		fmt.Sprintf("%s-%d", r.RemoteAddr, time.Now().UnixNano()), h.EventBuffer)
	h.Hub.Join(restaurantID, conn)
	defer h.Hub.Leave(conn)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-conn.Events():
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload)
			flusher.Flush()
		}
	}
}

// --- helpers ---

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var illegal *lifecycle.IllegalTransitionError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &illegal):
		http.Error(w, illegal.Error(), http.StatusConflict)
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrInvalidFulfillment),
		errors.Is(err, checkout.ErrMissingDeliveryAddr),
		errors.Is(err, cart.ErrRequiredVariant),
		errors.Is(err, cart.ErrUnknownOption),
		errors.Is(err, cart.ErrOptionUnavailable),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, lifecycle.ErrUnknownStatus):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, checkout.ErrMalformedCartLine):
		// Identity invariant broken upstream: abort, never partially submit.
		log.Printf("malformed cart line: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
