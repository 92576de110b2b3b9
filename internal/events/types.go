package events

import "github.com/kahvecikaan/product-catalog-api/internal/domain"

const (
	ProductCreatedEvent = "product_created"
	ProductUpdatedEvent = "product_updated"
	ProductDeletedEvent = "product_deleted"
)

type ProductCreated struct {
	Product *domain.ProductDTO `json:"product"`
}

func (ProductCreated) Name() string { return ProductCreatedEvent }

type ProductUpdated struct {
	Product *domain.ProductDTO `json:"product"`
}

func (ProductUpdated) Name() string { return ProductUpdatedEvent }

type ProductDeleted struct {
	ProductID int64 `json:"product_id"`
}

func (ProductDeleted) Name() string { return ProductDeletedEvent }

// Message is the envelope used when an event leaves the process
type Message struct {
	EventType string `json:"event-type"`
	Data      Event  `json:"data"`
}

func NewMessage(e Event) Message {
	return Message{EventType: e.Name(), Data: e}
}
