package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/TanushriS/IntelliQRHelp/internal/config"
	"github.com/TanushriS/IntelliQRHelp/internal/handlers"
	"github.com/TanushriS/IntelliQRHelp/internal/middleware"
)

// Handlers groups everything the router dispatches to
type Handlers struct {
	Auth          *handlers.AuthHandler
	GoogleAuth    *handlers.GoogleAuthHandler
	Health        *handlers.HealthHandler
	Profile       *handlers.ProfileHandler
	PublicProfile *handlers.PublicProfileHandler
	SOS           *handlers.SOSHandler
}

// SetupRoutes configures all application routes
func SetupRoutes(h Handlers, jwt *config.JWTConfig, limiter *middleware.RateLimiter) *http.ServeMux {
	mux := http.NewServeMux()
	auth := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.AuthMiddleware(next, jwt)
	}

	// Health check routes
	mux.HandleFunc("GET /healthz", h.Health.HealthCheck)
	mux.HandleFunc("GET /livez", h.Health.LivenessCheck)
	mux.HandleFunc("GET /readyz", h.Health.ReadinessCheck)

	// Authentication routes
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/logout", auth(h.Auth.Logout))
	mux.HandleFunc("GET /api/auth/google/login", h.GoogleAuth.GoogleLogin)
	mux.HandleFunc("GET /api/auth/google/callback", h.GoogleAuth.GoogleCallback)

	// Profile routes
	mux.HandleFunc("GET /api/profile", auth(h.Profile.GetProfile))
	mux.HandleFunc("PATCH /api/profile", auth(h.Profile.UpdateProfile))
	mux.HandleFunc("POST /api/profile/contacts", auth(h.Profile.AddContact))
	mux.HandleFunc("PUT /api/profile/contacts/{id}", auth(h.Profile.UpdateContact))
	mux.HandleFunc("DELETE /api/profile/contacts/{id}", auth(h.Profile.DeleteContact))
	mux.HandleFunc("POST /api/profile/medical/{field}", auth(h.Profile.AddEntry))
	mux.HandleFunc("PUT /api/profile/medical/{field}/{index}", auth(h.Profile.UpdateEntry))
	mux.HandleFunc("DELETE /api/profile/medical/{field}/{index}", auth(h.Profile.DeleteEntry))
	mux.HandleFunc("GET /api/profile/qr", auth(h.Profile.GetQR))
	mux.HandleFunc("POST /api/profile/qr/regenerate", auth(h.Profile.RegenerateQR))
	mux.HandleFunc("GET /api/profile/qr/image", auth(h.Profile.DownloadQR))
	mux.HandleFunc("GET /api/profile/sync", auth(h.Profile.GetSync))
	mux.HandleFunc("POST /api/profile/sync/retry", auth(h.Profile.RetrySync))

	mux.HandleFunc("POST /api/sos", auth(h.SOS.SendSOS))

	// Public routes reached by scanning a QR code
	mux.HandleFunc("GET /public-profile", limiter.Middleware(h.PublicProfile.PublicProfilePage))
	mux.HandleFunc("GET /api/public-profile", limiter.Middleware(h.PublicProfile.PublicProfileJSON))

	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Root route
	mux.HandleFunc("GET /{$}", rootHandler)

	return mux
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("IntelliQRHelp backend is running."))
}
