//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/lifecycle"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/notify"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/repository"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/storage"
)

type Lifecycle interface {
	TransitionOrder(ctx context.Context, orderID string, requested lifecycle.Status, in storage.TransitionInput) (*storage.OrderTransition, error)
	TransitionBooking(ctx context.Context, kind lifecycle.Kind, bookingID string, requested lifecycle.Status, in storage.TransitionInput) (*storage.BookingTransition, error)
}

type Timeline interface {
	AppendEvent(ctx context.Context, subjectID, subjectType, status string, location, message *string) (*repository.TrackingEvent, error)
	GetTimeline(ctx context.Context, subjectID string) ([]*repository.TrackingEvent, error)
}

type Notifier interface {
	NotifyMany(ctx context.Context, userIDs []string, ev notify.Event) []notify.Result
}

type NotificationReader interface {
	GetByUserID(ctx context.Context, userID string, limit int) ([]*repository.Notification, error)
}

type Server struct {
	lifecycle     Lifecycle
	timeline      Timeline
	notifier      Notifier
	notifications NotificationReader
	logger        *zap.Logger
	server        *http.Server
}

func New(lc Lifecycle, timeline Timeline, notifier Notifier, notifications NotificationReader, logger *zap.Logger) *Server {
	return &Server{
		lifecycle:     lc,
		timeline:      timeline,
		notifier:      notifier,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *Server) Run(port string) error {
	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.logger.Info("HTTP server starting", zap.String("port", port))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("HTTP server shutdown completed")
	return nil
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.requestLogMiddleware)

	router.HandleFunc("/orders/{id}/status", s.handleOrderStatus).Methods(http.MethodPut)
	router.HandleFunc("/bookings/{kind}/{id}/status", s.handleBookingStatus).Methods(http.MethodPut)

	router.HandleFunc("/tracking/{subjectId}", s.handleGetTimeline).Methods(http.MethodGet)
	router.HandleFunc("/tracking/{subjectId}/events", s.handleAppendTrackingEvent).Methods(http.MethodPost)

	router.HandleFunc("/notifications", s.handleNotify).Methods(http.MethodPost)
	router.HandleFunc("/users/{id}/notifications", s.handleListNotifications).Methods(http.MethodGet)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return router
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var trErr *lifecycle.TransitionError
	switch {
	case errors.As(err, &trErr):
		return http.StatusConflict
	case errors.Is(err, repository.ErrObjectNotFound), errors.Is(err, repository.ErrRecipientNotFound):
		return http.StatusNotFound
	case errors.Is(err, lifecycle.ErrUnknownKind),
		errors.Is(err, notify.ErrUnknownEvent), errors.Is(err, notify.ErrInvalidEvent):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
