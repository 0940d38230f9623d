package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrInvalidEvent = errors.New("invalid event")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

var decoders = map[EventKind]func([]byte) (Event, error){
	KindOrderPlaced:        decodeAs[OrderPlaced],
	KindOrderConfirmed:     decodeAs[OrderConfirmed],
	KindOrderShipped:       decodeAs[OrderShipped],
	KindOrderDelivered:     decodeAs[OrderDelivered],
	KindOrderCancelled:     decodeAs[OrderCancelled],
	KindPaymentSucceeded:   decodeAs[PaymentSucceeded],
	KindPaymentFailed:      decodeAs[PaymentFailed],
	KindProductApproved:    decodeAs[ProductApproved],
	KindProductRejected:    decodeAs[ProductRejected],
	KindProductOutOfStock:  decodeAs[ProductOutOfStock],
	KindProductInStock:     decodeAs[ProductInStock],
	KindDeliveryAssigned:   decodeAs[DeliveryAssigned],
	KindDeliveryInProgress: decodeAs[DeliveryInProgress],
	KindDeliveryCompleted:  decodeAs[DeliveryCompleted],
	KindBookingConfirmed:   decodeAs[BookingConfirmed],
	KindBookingCancelled:   decodeAs[BookingCancelled],
	KindRatingReceived:     decodeAs[RatingReceived],
	KindLowInventory:       decodeAs[LowInventory],
}

// DecodeEvent reads an event of the form {"type": "OrderShipped", ...fields}
// and checks its required fields.
func DecodeEvent(data []byte) (Event, error) {
	var envelope struct {
		Type EventKind `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}

	decode, ok := decoders[envelope.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, envelope.Type)
	}
	return decode(data)
}

func decodeAs[T Event](data []byte) (Event, error) {
	var ev T
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", ev.Kind(), err)
	}
	if err := validate.Struct(ev); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInvalidEvent, ev.Kind(), err)
	}
	return ev, nil
}

// Payload flattens ev into the structured data sent with a push message.
func Payload(ev Event) (map[string]any, error) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	out["event"] = string(ev.Kind())
	return out, nil
}
