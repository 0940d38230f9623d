package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/lifecycle"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/notify"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/repository"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/storage"
)

type statusRequest struct {
	Status      string `json:"status"`
	TrackingID  string `json:"trackingId"`
	Location    string `json:"location"`
	Message     string `json:"message"`
	Reason      string `json:"reason"`
	DriverName  string `json:"driverName"`
	ServiceName string `json:"serviceName"`
}

func (r statusRequest) input() storage.TransitionInput {
	return storage.TransitionInput{
		TrackingID: r.TrackingID,
		Location:   r.Location,
		Message:    r.Message,
	}
}

type notificationResult struct {
	UserID         string   `json:"userId"`
	NotificationID int64    `json:"notificationId,omitempty"`
	PushAttempted  bool     `json:"pushAttempted"`
	PushErrors     []string `json:"pushErrors,omitempty"`
	Error          string   `json:"error,omitempty"`
}

type transitionResponse struct {
	SubjectID     string                    `json:"subjectId"`
	Kind          lifecycle.Kind            `json:"kind"`
	From          lifecycle.Status          `json:"from"`
	To            lifecycle.Status          `json:"to"`
	Changed       bool                      `json:"changed"`
	TrackingID    string                    `json:"trackingId,omitempty"`
	Event         *repository.TrackingEvent `json:"trackingEvent,omitempty"`
	Notifications []notificationResult      `json:"notifications,omitempty"`
}

func decodeStatusRequest(r *http.Request) (statusRequest, bool) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, false
	}
	req.Status = strings.ToUpper(strings.TrimSpace(req.Status))
	return req, req.Status != ""
}

func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "Missing order ID")
		return
	}

	req, ok := decodeStatusRequest(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := s.lifecycle.TransitionOrder(r.Context(), orderID, lifecycle.Status(req.Status), req.input())
	if err != nil {
		s.logger.Warn("Order transition failed", zap.String("subject_id", orderID), zap.Error(err))
		respondError(w, statusFor(err), err.Error())
		return
	}

	resp := newTransitionResponse(res.Transition, res.Event)
	if res.Order.TrackingID != nil {
		resp.TrackingID = *res.Order.TrackingID
	}
	resp.Notifications = s.notifyTransition(r.Context(), res.Transition,
		notify.Parties{CustomerID: res.Order.BuyerID, SupplierID: res.Order.SupplierID},
		notify.Details{TrackingID: resp.TrackingID, Reason: req.Reason},
	)

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBookingStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, err := bookingKind(vars["kind"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	bookingID := vars["id"]
	if bookingID == "" {
		respondError(w, http.StatusBadRequest, "Missing booking ID")
		return
	}

	req, ok := decodeStatusRequest(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := s.lifecycle.TransitionBooking(r.Context(), kind, bookingID, lifecycle.Status(req.Status), req.input())
	if err != nil {
		s.logger.Warn("Booking transition failed", zap.String("subject_id", bookingID), zap.Error(err))
		respondError(w, statusFor(err), err.Error())
		return
	}

	parties := notify.Parties{CustomerID: res.Booking.CustomerID}
	if res.Booking.ProviderID != nil {
		parties.ProviderID = *res.Booking.ProviderID
	}

	serviceName := req.ServiceName
	if serviceName == "" {
		serviceName = res.Booking.Description
	}

	resp := newTransitionResponse(res.Transition, res.Event)
	resp.Notifications = s.notifyTransition(r.Context(), res.Transition, parties, notify.Details{
		Reason:      req.Reason,
		DriverName:  req.DriverName,
		ServiceName: serviceName,
	})

	respondJSON(w, http.StatusOK, resp)
}

// bookingKind accepts the short path names as well as the subject kinds.
func bookingKind(s string) (lifecycle.Kind, error) {
	switch strings.ToLower(s) {
	case "mechanic":
		return lifecycle.KindMechanicBooking, nil
	case "logistics", "delivery":
		return lifecycle.KindLogisticsBooking, nil
	}
	kind, err := lifecycle.ParseKind(strings.ToUpper(s))
	if err != nil || kind == lifecycle.KindOrder {
		return "", lifecycle.ErrUnknownKind
	}
	return kind, nil
}

func newTransitionResponse(tr lifecycle.Transition, ev *repository.TrackingEvent) transitionResponse {
	return transitionResponse{
		SubjectID: tr.Subject().ID,
		Kind:      tr.Subject().Kind,
		From:      tr.From(),
		To:        tr.To(),
		Changed:   tr.Changed(),
		Event:     ev,
	}
}

// notifyTransition runs after the transition is committed. Notification
// failures are reported in the response and never undo the transition.
func (s *Server) notifyTransition(ctx context.Context, tr lifecycle.Transition, p notify.Parties, d notify.Details) []notificationResult {
	ev, recipients, ok := notify.ForTransition(tr, p, d)
	if !ok {
		return nil
	}
	return toNotificationResults(s.notifier.NotifyMany(context.WithoutCancel(ctx), recipients, ev))
}

func toNotificationResults(results []notify.Result) []notificationResult {
	out := make([]notificationResult, 0, len(results))
	for _, res := range results {
		nr := notificationResult{
			UserID:         res.UserID,
			NotificationID: res.NotificationID,
			PushAttempted:  res.PushAttempted,
		}
		for _, err := range res.PushErrors {
			nr.PushErrors = append(nr.PushErrors, err.Error())
		}
		if res.Err != nil {
			nr.Error = res.Err.Error()
		}
		out = append(out, nr)
	}
	return out
}

func (s *Server) handleGetTimeline(w http.ResponseWriter, r *http.Request) {
	subjectID := mux.Vars(r)["subjectId"]
	if subjectID == "" {
		respondError(w, http.StatusBadRequest, "Missing subject ID")
		return
	}

	events, err := s.timeline.GetTimeline(r.Context(), subjectID)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, events)
}

func (s *Server) handleAppendTrackingEvent(w http.ResponseWriter, r *http.Request) {
	subjectID := mux.Vars(r)["subjectId"]

	var eventRequest struct {
		SubjectType string  `json:"subjectType"`
		Status      string  `json:"status"`
		Location    *string `json:"location"`
		Message     *string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&eventRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if subjectID == "" || eventRequest.SubjectType == "" || eventRequest.Status == "" {
		respondError(w, http.StatusBadRequest, "Missing subjectType or status")
		return
	}

	ev, err := s.timeline.AppendEvent(r.Context(), subjectID, eventRequest.SubjectType, eventRequest.Status,
		eventRequest.Location, eventRequest.Message)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, ev)
}

func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	var notifyRequest struct {
		UserIDs []string        `json:"userIds"`
		Event   json.RawMessage `json:"event"`
	}
	if err := json.NewDecoder(r.Body).Decode(&notifyRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(notifyRequest.UserIDs) == 0 {
		respondError(w, http.StatusBadRequest, "Missing userIds")
		return
	}

	ev, err := notify.DecodeEvent(notifyRequest.Event)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := s.notifier.NotifyMany(r.Context(), notifyRequest.UserIDs, ev)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"results": toNotificationResults(results),
	})
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	if userID == "" {
		respondError(w, http.StatusBadRequest, "Missing user ID")
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid value for 'limit' parameter")
			return
		}
	}

	notifications, err := s.notifications.GetByUserID(r.Context(), userID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}
	if notifications == nil {
		notifications = []*repository.Notification{}
	}

	respondJSON(w, http.StatusOK, notifications)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
