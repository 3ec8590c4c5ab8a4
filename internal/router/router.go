package router

import (
	"net/http"

	"jewelcore/internal/handler"
	"jewelcore/internal/middleware"
	"jewelcore/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	quotationHandler *handler.QuotationHandler,
	orderHandler *handler.OrderHandler,
	pricingHandler *handler.PricingHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("POST /api/v1/quotations", quotationHandler.Create)
	mux.HandleFunc("GET /api/v1/quotations/{id}", withID(logger, quotationHandler.GetByID))
	mux.HandleFunc("POST /api/v1/quotations/{id}/approve", withID(logger, quotationHandler.Approve))
	mux.HandleFunc("POST /api/v1/quotations/{id}/reject", withID(logger, quotationHandler.Reject))
	mux.HandleFunc("POST /api/v1/quotations/{id}/request-confirmation", withID(logger, quotationHandler.RequestConfirmation))
	mux.HandleFunc("POST /api/v1/quotations/{id}/respond", withID(logger, quotationHandler.Respond))
	mux.HandleFunc("POST /api/v1/quotations/{id}/items", withID(logger, quotationHandler.AddItem))
	mux.HandleFunc("PUT /api/v1/quotations/{id}/product", withID(logger, quotationHandler.UpdateProduct))

	mux.HandleFunc("GET /api/v1/orders/{id}", withID(logger, orderHandler.GetByID))
	mux.HandleFunc("POST /api/v1/orders/{id}/transition", withID(logger, orderHandler.Transition))

	mux.HandleFunc("POST /api/v1/pricing/preview", pricingHandler.Preview)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}

// withID parses the {id} path segment before delegating to the handler.
func withID(logger zerolog.Logger, next func(http.ResponseWriter, *http.Request, uuid.UUID)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "` + model.ErrCodeMissingField + `", "message": "invalid id format"}`))
			logger.Warn().Str("path", r.URL.Path).Msg("invalid id in path")
			return
		}
		next(w, r, id)
	}
}
