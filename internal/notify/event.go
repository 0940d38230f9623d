package notify

import "github.com/shopspring/decimal"

type EventKind string

const (
	KindOrderPlaced        EventKind = "OrderPlaced"
	KindOrderConfirmed     EventKind = "OrderConfirmed"
	KindOrderShipped       EventKind = "OrderShipped"
	KindOrderDelivered     EventKind = "OrderDelivered"
	KindOrderCancelled     EventKind = "OrderCancelled"
	KindPaymentSucceeded   EventKind = "PaymentSucceeded"
	KindPaymentFailed      EventKind = "PaymentFailed"
	KindProductApproved    EventKind = "ProductApproved"
	KindProductRejected    EventKind = "ProductRejected"
	KindProductOutOfStock  EventKind = "ProductOutOfStock"
	KindProductInStock     EventKind = "ProductInStock"
	KindDeliveryAssigned   EventKind = "DeliveryAssigned"
	KindDeliveryInProgress EventKind = "DeliveryInProgress"
	KindDeliveryCompleted  EventKind = "DeliveryCompleted"
	KindBookingConfirmed   EventKind = "BookingConfirmed"
	KindBookingCancelled   EventKind = "BookingCancelled"
	KindRatingReceived     EventKind = "RatingReceived"
	KindLowInventory       EventKind = "LowInventory"
)

// Event is one of the lifecycle events a user can be notified about. The set
// of implementations is closed.
type Event interface {
	Kind() EventKind
	event()
}

type OrderPlaced struct {
	OrderID string `json:"orderId" validate:"required"`
}

type OrderConfirmed struct {
	OrderID string `json:"orderId" validate:"required"`
}

type OrderShipped struct {
	OrderID    string `json:"orderId" validate:"required"`
	TrackingID string `json:"trackingId" validate:"required"`
}

type OrderDelivered struct {
	OrderID string `json:"orderId" validate:"required"`
}

type OrderCancelled struct {
	OrderID string `json:"orderId" validate:"required"`
	Reason  string `json:"reason,omitempty"`
}

type PaymentSucceeded struct {
	OrderID string          `json:"orderId" validate:"required"`
	Amount  decimal.Decimal `json:"amount" validate:"gt=0"`
}

type PaymentFailed struct {
	OrderID string `json:"orderId" validate:"required"`
	Reason  string `json:"reason,omitempty"`
}

type ProductApproved struct {
	ProductID   string `json:"productId" validate:"required"`
	ProductName string `json:"productName" validate:"required"`
}

type ProductRejected struct {
	ProductID   string `json:"productId" validate:"required"`
	ProductName string `json:"productName" validate:"required"`
	Reason      string `json:"reason,omitempty"`
}

type ProductOutOfStock struct {
	ProductID   string `json:"productId" validate:"required"`
	ProductName string `json:"productName" validate:"required"`
}

type ProductInStock struct {
	ProductID   string `json:"productId" validate:"required"`
	ProductName string `json:"productName" validate:"required"`
}

type DeliveryAssigned struct {
	DeliveryID string `json:"deliveryId" validate:"required"`
	DriverName string `json:"driverName,omitempty"`
}

type DeliveryInProgress struct {
	DeliveryID string `json:"deliveryId" validate:"required"`
}

type DeliveryCompleted struct {
	DeliveryID string `json:"deliveryId" validate:"required"`
}

type BookingConfirmed struct {
	BookingID   string `json:"bookingId" validate:"required"`
	ServiceName string `json:"serviceName,omitempty"`
}

type BookingCancelled struct {
	BookingID string `json:"bookingId" validate:"required"`
	Reason    string `json:"reason,omitempty"`
}

type RatingReceived struct {
	Rating    int    `json:"rating" validate:"min=1,max=5"`
	ProductID string `json:"productId,omitempty"`
}

type LowInventory struct {
	ProductID    string `json:"productId" validate:"required"`
	ProductName  string `json:"productName" validate:"required"`
	CurrentStock int    `json:"currentStock" validate:"min=0"`
}

func (OrderPlaced) Kind() EventKind        { return KindOrderPlaced }
func (OrderConfirmed) Kind() EventKind     { return KindOrderConfirmed }
func (OrderShipped) Kind() EventKind       { return KindOrderShipped }
func (OrderDelivered) Kind() EventKind     { return KindOrderDelivered }
func (OrderCancelled) Kind() EventKind     { return KindOrderCancelled }
func (PaymentSucceeded) Kind() EventKind   { return KindPaymentSucceeded }
func (PaymentFailed) Kind() EventKind      { return KindPaymentFailed }
func (ProductApproved) Kind() EventKind    { return KindProductApproved }
func (ProductRejected) Kind() EventKind    { return KindProductRejected }
func (ProductOutOfStock) Kind() EventKind  { return KindProductOutOfStock }
func (ProductInStock) Kind() EventKind     { return KindProductInStock }
func (DeliveryAssigned) Kind() EventKind   { return KindDeliveryAssigned }
func (DeliveryInProgress) Kind() EventKind { return KindDeliveryInProgress }
func (DeliveryCompleted) Kind() EventKind  { return KindDeliveryCompleted }
func (BookingConfirmed) Kind() EventKind   { return KindBookingConfirmed }
func (BookingCancelled) Kind() EventKind   { return KindBookingCancelled }
func (RatingReceived) Kind() EventKind     { return KindRatingReceived }
func (LowInventory) Kind() EventKind       { return KindLowInventory }

func (OrderPlaced) event()        {}
func (OrderConfirmed) event()     {}
func (OrderShipped) event()       {}
func (OrderDelivered) event()     {}
func (OrderCancelled) event()     {}
func (PaymentSucceeded) event()   {}
func (PaymentFailed) event()      {}
func (ProductApproved) event()    {}
func (ProductRejected) event()    {}
func (ProductOutOfStock) event()  {}
func (ProductInStock) event()     {}
func (DeliveryAssigned) event()   {}
func (DeliveryInProgress) event() {}
func (DeliveryCompleted) event()  {}
func (BookingConfirmed) event()   {}
func (BookingCancelled) event()   {}
func (RatingReceived) event()     {}
func (LowInventory) event()       {}
