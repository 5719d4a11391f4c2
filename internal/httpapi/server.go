package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/MarkoPoloResearchLab/realstay/pkg/booking"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tyemirov/tauth/pkg/sessionvalidator"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	claimsContextKey  = "auth_claims"
	healthServiceName = "realstay.BookingAPI"
)

// Run serves the booking API until ctx is cancelled.
func Run(ctx context.Context, cfg Config, service *booking.Service, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if service == nil {
		return errors.New("booking service is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sessionValidator, err := sessionvalidator.New(sessionvalidator.Config{
		SigningKey: []byte(cfg.SessionSigningKey),
		Issuer:     cfg.SessionIssuer,
		CookieName: cfg.SessionCookieName,
	})
	if err != nil {
		return fmt.Errorf("session validator: %w", err)
	}

	handler := &httpHandler{
		logger:  logger,
		service: service,
		cfg:     cfg,
	}
	gin.SetMode(gin.ReleaseMode)
	router := setupRouter(cfg, handler, sessionValidator)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("booking api listening", zap.String("addr", cfg.ListenAddr))
		errCh <- server.ListenAndServe()
	}()

	var healthServer *health.Server
	var grpcServer *grpc.Server
	if cfg.GRPCHealthAddr != "" {
		listener, err := net.Listen("tcp", cfg.GRPCHealthAddr)
		if err != nil {
			_ = server.Close()
			return fmt.Errorf("listen grpc health: %w", err)
		}
		grpcServer = grpc.NewServer()
		healthServer = health.NewServer()
		healthpb.RegisterHealthServer(grpcServer, healthServer)
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		healthServer.SetServingStatus(healthServiceName, healthpb.HealthCheckResponse_SERVING)
		go func() {
			logger.Info("grpc health listening", zap.String("addr", cfg.GRPCHealthAddr))
			if serveErr := grpcServer.Serve(listener); serveErr != nil {
				errCh <- fmt.Errorf("grpc health: %w", serveErr)
			}
		}()
	}
	stopHealth := func() {
		if grpcServer == nil {
			return
		}
		healthServer.Shutdown()
		grpcServer.GracefulStop()
	}

	select {
	case <-ctx.Done():
		stopHealth()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn("server shutdown error", zap.Error(shutdownErr))
		}
		return nil
	case err := <-errCh:
		stopHealth()
		_ = server.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func setupRouter(cfg Config, handler *httpHandler, validator *sessionvalidator.Validator) *gin.Engine {
	registerJSONFieldNames()
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Origin", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := router.Group("/api")
	public.GET("/listings", handler.handleListListings)
	public.GET("/listings/:id", handler.handleListingDetail)
	public.POST("/listings/:id/quote", handler.handleQuote)
	public.POST("/host-applications", handler.handleSubmitHostApplication)

	me := router.Group("/api/me")
	me.Use(handler.sessionGate(validator.GinMiddleware(claimsContextKey)))
	me.GET("/session", handler.handleSession)
	me.GET("/listings/:id", handler.handleListingDetail)
	me.POST("/listings/:id/bookings", handler.handleCheckout)
	me.POST("/listings/:id/reviews", handler.handleSubmitReview)
	me.GET("/bookings", handler.handleListBookings)
	me.POST("/bookings/:id/cancel", handler.handleCancelBooking)
	me.GET("/profile", handler.handleProfile)
	me.PUT("/profile", handler.handleUpdateProfile)

	admin := me.Group("/admin")
	admin.POST("/listings", handler.handleAddListing)
	admin.PUT("/listings/:id", handler.handleUpdateListing)
	admin.DELETE("/listings/:id", handler.handleRemoveListing)
	admin.POST("/listings/:id/rooms", handler.handleAddRoom)
	admin.PUT("/rooms/:id", handler.handleUpdateRoom)
	admin.GET("/host-applications", handler.handleListHostApplications)

	return router
}

// sessionGate runs validate against a detached context so a rejected session is answered
// with the sign-in redirect envelope instead of the validator's bare status.
func (handler *httpHandler) sessionGate(validate gin.HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		detached, _ := gin.CreateTestContext(discardResponseWriter{header: http.Header{}})
		detached.Request = ctx.Request
		validate(detached)
		claims, ok := detached.Get(claimsContextKey)
		if detached.IsAborted() || !ok {
			handler.respondError(ctx, booking.ErrSessionRequired)
			ctx.Abort()
			return
		}
		ctx.Set(claimsContextKey, claims)
		ctx.Next()
	}
}

type discardResponseWriter struct {
	header http.Header
}

func (writer discardResponseWriter) Header() http.Header { return writer.header }

func (writer discardResponseWriter) Write(data []byte) (int, error) { return len(data), nil }

func (writer discardResponseWriter) WriteHeader(int) {}

func getClaims(ctx *gin.Context) *sessionvalidator.Claims {
	claimsValue, ok := ctx.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, _ := claimsValue.(*sessionvalidator.Claims)
	return claims
}

// sessionFromClaims returns the anonymous session when the request carries no valid claims.
func sessionFromClaims(claims *sessionvalidator.Claims) booking.Session {
	if claims == nil {
		return booking.AnonymousSession()
	}
	session, err := booking.NewSession(claims.GetUserID(), claims.GetUserRoles()...)
	if err != nil {
		return booking.AnonymousSession()
	}
	return session
}

func errorResponse(code string, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}
