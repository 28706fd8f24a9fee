package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the closed set of fulfillment states.
type OrderStatus string

const (
	StatusPlaced         OrderStatus = "Placed"
	StatusPacking        OrderStatus = "Packing"
	StatusShipped        OrderStatus = "Shipped"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
)

// transitions is the fulfillment state machine. Cancellation is only
// possible before the order ships.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPlaced:         {StatusPacking, StatusCancelled},
	StatusPacking:        {StatusShipped, StatusCancelled},
	StatusShipped:        {StatusOutForDelivery},
	StatusOutForDelivery: {StatusDelivered},
}

// CanTransition reports whether moving from s to next is legal.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// ParseOrderStatus maps a wire string onto the closed enum.
func ParseOrderStatus(v string) (OrderStatus, bool) {
	switch OrderStatus(v) {
	case StatusPlaced, StatusPacking, StatusShipped, StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return OrderStatus(v), true
	}
	return "", false
}

// Payment method tags.
const (
	PaymentCOD      = "COD"
	PaymentRazorpay = "Razorpay"
)

// OrderItem is a point-in-time snapshot of a product line. Once the order
// is written these fields never change, even if the catalog entry does.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Size      string             `bson:"size,omitempty" json:"size,omitempty"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Address is the shipping address snapshot taken at checkout.
type Address struct {
	FirstName string `bson:"first_name" json:"firstName"`
	LastName  string `bson:"last_name" json:"lastName"`
	Email     string `bson:"email" json:"email"`
	Street    string `bson:"street" json:"street"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	Zipcode   string `bson:"zipcode" json:"zipcode"`
	Country   string `bson:"country" json:"country"`
	Phone     string `bson:"phone" json:"phone"`
}

// Order is created atomically at checkout and mutated only by status
// updates and payment confirmation.
type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"userId"`
	Items          []OrderItem        `bson:"items" json:"items"`
	Amount         float64            `bson:"amount" json:"amount"`
	Address        Address            `bson:"address" json:"address"`
	Status         OrderStatus        `bson:"status" json:"status"`
	PaymentMethod  string             `bson:"payment_method" json:"paymentMethod"`
	Payment        bool               `bson:"payment" json:"payment"`
	GatewayOrderID string             `bson:"gateway_order_id,omitempty" json:"gatewayOrderId,omitempty"`
	Date           time.Time          `bson:"date" json:"date"`
}
