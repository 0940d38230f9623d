package notify

import "github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/lifecycle"

// Parties are the users involved in a subject. SupplierID is set for
// orders, ProviderID for bookings once a mechanic or driver is assigned.
type Parties struct {
	CustomerID string
	SupplierID string
	ProviderID string
}

// Details carries the event fields a transition alone does not know.
type Details struct {
	TrackingID  string
	Reason      string
	DriverName  string
	ServiceName string
}

// ForTransition maps a persisted transition to the event and recipients to
// notify. It reports false when the transition notifies nobody.
func ForTransition(tr lifecycle.Transition, p Parties, d Details) (Event, []string, bool) {
	if !tr.Changed() {
		return nil, nil, false
	}

	id := tr.Subject().ID
	var (
		ev         Event
		recipients []string
	)

	switch tr.Subject().Kind {
	case lifecycle.KindOrder:
		switch tr.To() {
		case lifecycle.StatusConfirmed:
			ev, recipients = OrderConfirmed{OrderID: id}, []string{p.CustomerID}
		case lifecycle.StatusShipped:
			ev, recipients = OrderShipped{OrderID: id, TrackingID: d.TrackingID}, []string{p.CustomerID}
		case lifecycle.StatusDelivered:
			ev, recipients = OrderDelivered{OrderID: id}, []string{p.CustomerID}
		case lifecycle.StatusCancelled:
			ev, recipients = OrderCancelled{OrderID: id, Reason: d.Reason}, []string{p.CustomerID, p.SupplierID}
		}

	case lifecycle.KindLogisticsBooking:
		switch tr.To() {
		case lifecycle.StatusConfirmed:
			ev, recipients = DeliveryAssigned{DeliveryID: id, DriverName: d.DriverName}, []string{p.CustomerID}
		case lifecycle.StatusInProgress:
			ev, recipients = DeliveryInProgress{DeliveryID: id}, []string{p.CustomerID}
		case lifecycle.StatusCompleted:
			ev, recipients = DeliveryCompleted{DeliveryID: id}, []string{p.CustomerID}
		case lifecycle.StatusCancelled:
			ev, recipients = BookingCancelled{BookingID: id, Reason: d.Reason}, []string{p.CustomerID, p.ProviderID}
		}

	case lifecycle.KindMechanicBooking:
		switch tr.To() {
		case lifecycle.StatusConfirmed:
			ev, recipients = BookingConfirmed{BookingID: id, ServiceName: d.ServiceName}, []string{p.CustomerID}
		case lifecycle.StatusCancelled:
			ev, recipients = BookingCancelled{BookingID: id, Reason: d.Reason}, []string{p.CustomerID, p.ProviderID}
		}
	}

	if ev == nil {
		return nil, nil, false
	}

	recipients = uniqueNonEmpty(recipients)
	if len(recipients) == 0 {
		return nil, nil, false
	}
	return ev, recipients, true
}

func uniqueNonEmpty(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
