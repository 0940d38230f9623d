package notify

import (
	"fmt"
	"strings"
	"text/template"
)

// Type is the in-app notification category.
type Type string

const (
	TypeOrder              Type = "ORDER"
	TypeOrderStatusUpdated Type = "ORDER_STATUS_UPDATED"
	TypePayment            Type = "PAYMENT"
	TypeProduct            Type = "PRODUCT"
	TypeDelivery           Type = "DELIVERY"
	TypeBooking            Type = "BOOKING"
	TypeReview             Type = "REVIEW"
	TypeLowInventory       Type = "LOW_INVENTORY"
	TypeSystem             Type = "SYSTEM"
)

const reasonSuffix = `{{if .Reason}} Reason: {{.Reason}}{{end}}`

type entry struct {
	typ     Type
	title   *template.Template
	message *template.Template
	link    *template.Template
}

func newEntry(kind EventKind, typ Type, title, message, link string) entry {
	name := string(kind)
	return entry{
		typ:     typ,
		title:   template.Must(template.New(name + ".title").Parse(title)),
		message: template.Must(template.New(name + ".message").Parse(message)),
		link:    template.Must(template.New(name + ".link").Parse(link)),
	}
}

var templates = map[EventKind]entry{
	KindOrderPlaced: newEntry(KindOrderPlaced, TypeOrder,
		"Order Placed",
		"Your order #{{.OrderID}} has been placed successfully.",
		"/orders/{{.OrderID}}"),
	KindOrderConfirmed: newEntry(KindOrderConfirmed, TypeOrderStatusUpdated,
		"Order Confirmed",
		"Your order #{{.OrderID}} has been confirmed by the supplier.",
		"/orders/{{.OrderID}}"),
	KindOrderShipped: newEntry(KindOrderShipped, TypeOrderStatusUpdated,
		"Order Shipped",
		"Your order #{{.OrderID}} is on its way. Tracking ID: {{.TrackingID}}",
		"/orders/{{.OrderID}}/tracking"),
	KindOrderDelivered: newEntry(KindOrderDelivered, TypeDelivery,
		"Order Delivered",
		"Your order #{{.OrderID}} has been delivered.",
		"/orders/{{.OrderID}}"),
	KindOrderCancelled: newEntry(KindOrderCancelled, TypeOrderStatusUpdated,
		"Order Cancelled",
		"Order #{{.OrderID}} has been cancelled."+reasonSuffix,
		"/orders/{{.OrderID}}"),
	KindPaymentSucceeded: newEntry(KindPaymentSucceeded, TypePayment,
		"Payment Successful",
		"Payment of ₦{{.Amount.StringFixed 2}} for order #{{.OrderID}} was successful.",
		"/orders/{{.OrderID}}"),
	KindPaymentFailed: newEntry(KindPaymentFailed, TypePayment,
		"Payment Failed",
		"Payment for order #{{.OrderID}} failed."+reasonSuffix,
		"/orders/{{.OrderID}}"),
	KindProductApproved: newEntry(KindProductApproved, TypeProduct,
		"Product Approved",
		`Your product "{{.ProductName}}" has been approved and is now live.`,
		"/products/{{.ProductID}}"),
	KindProductRejected: newEntry(KindProductRejected, TypeProduct,
		"Product Rejected",
		`Your product "{{.ProductName}}" was not approved.`+reasonSuffix,
		"/dashboard/supplier/products"),
	KindProductOutOfStock: newEntry(KindProductOutOfStock, TypeProduct,
		"Out of Stock",
		`"{{.ProductName}}" is out of stock.`,
		"/dashboard/supplier/inventory"),
	KindProductInStock: newEntry(KindProductInStock, TypeProduct,
		"Back in Stock",
		`"{{.ProductName}}" is back in stock.`,
		"/products/{{.ProductID}}"),
	KindDeliveryAssigned: newEntry(KindDeliveryAssigned, TypeDelivery,
		"Driver Assigned",
		"{{if .DriverName}}{{.DriverName}}{{else}}A driver{{end}} has been assigned to your delivery.",
		"/tracking/{{.DeliveryID}}"),
	KindDeliveryInProgress: newEntry(KindDeliveryInProgress, TypeDelivery,
		"Delivery In Progress",
		"Your delivery is on the way.",
		"/tracking/{{.DeliveryID}}"),
	KindDeliveryCompleted: newEntry(KindDeliveryCompleted, TypeDelivery,
		"Delivery Completed",
		"Your delivery has been completed.",
		"/tracking/{{.DeliveryID}}"),
	KindBookingConfirmed: newEntry(KindBookingConfirmed, TypeBooking,
		"Booking Confirmed",
		"Your booking{{if .ServiceName}} for {{.ServiceName}}{{end}} has been confirmed.",
		"/bookings/{{.BookingID}}"),
	KindBookingCancelled: newEntry(KindBookingCancelled, TypeBooking,
		"Booking Cancelled",
		"Booking #{{.BookingID}} has been cancelled."+reasonSuffix,
		"/bookings/{{.BookingID}}"),
	KindRatingReceived: newEntry(KindRatingReceived, TypeReview,
		"New Review",
		"You received a {{.Rating}}-star rating.",
		"/reviews"),
	KindLowInventory: newEntry(KindLowInventory, TypeLowInventory,
		"Low Inventory Alert",
		`"{{.ProductName}}" is running low ({{.CurrentStock}} left).`,
		"/dashboard/supplier/inventory"),
}

// Rendered is the content derived from one event, shared by the in-app
// record and the push message.
type Rendered struct {
	Type    Type
	Title   string
	Message string
	Link    string
}

// Render fills the templates of ev. Events missing a required field are
// rejected so no half-filled text is stored or pushed.
func Render(ev Event) (Rendered, error) {
	if ev == nil {
		return Rendered{}, ErrUnknownEvent
	}
	e, ok := templates[ev.Kind()]
	if !ok {
		return Rendered{}, fmt.Errorf("%w: %s", ErrUnknownEvent, ev.Kind())
	}
	if err := validate.Struct(ev); err != nil {
		return Rendered{}, fmt.Errorf("%w %s: %w", ErrInvalidEvent, ev.Kind(), err)
	}

	exec := func(t *template.Template) (string, error) {
		var sb strings.Builder
		if err := t.Execute(&sb, ev); err != nil {
			return "", fmt.Errorf("failed to render %s: %w", t.Name(), err)
		}
		return sb.String(), nil
	}

	title, err := exec(e.title)
	if err != nil {
		return Rendered{}, err
	}
	message, err := exec(e.message)
	if err != nil {
		return Rendered{}, err
	}
	link, err := exec(e.link)
	if err != nil {
		return Rendered{}, err
	}

	return Rendered{Type: e.typ, Title: title, Message: message, Link: link}, nil
}
