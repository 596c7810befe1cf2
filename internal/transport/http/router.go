package http

import (
	"net/http"

	"github.com/dukaan-app/otp-api/internal/application/otp"
	"github.com/dukaan-app/otp-api/internal/config"
	"github.com/dukaan-app/otp-api/internal/transport/http/handler"
	appmiddleware "github.com/dukaan-app/otp-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second with a burst of 10 on the public authentication
	// endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	otpSvc := otp.NewService(otp.ServiceDeps{
		Store:  deps.Store,
		Sender: deps.SMSSender,
		Issuer: deps.Issuer,
		TTL:    cfg.OTPTTL,
	})

	otpH := handler.NewOTPHandler(otpSvc, !cfg.IsProduction())
	healthH := handler.NewHealthHandler(deps.StoreOps, cfg.SMSProvider, deps.SMSReady, deps.Issuer != nil)
	exchangeH := handler.NewExchangeHandler(deps.Verifier, deps.Issuer)
	geocodeH := handler.NewGeocodeHandler(deps.Geocoder)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/otp/{action}", otpH.Action)
		r.With(sensitiveRL.Limit).Post("/token/exchange", exchangeH.Exchange)
		r.Get("/geocode/reverse", geocodeH.Reverse)
	})

	return r
}
