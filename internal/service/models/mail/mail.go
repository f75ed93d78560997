package mail

// Template names a handlebars template rendered by the external mail service.
type Template string

const (
	TemplateOrderPlacedOnStore   Template = "orderPlacedOnStore"
	TemplateOrderPlaced          Template = "orderPlaced"
	TemplateConfirmOrderDelivery Template = "confirmOrderDelivery"
	TemplateOrderCancelled       Template = "orderCancelled"
)

func (t Template) String() string {
	return string(t)
}

// Message is a templated mail send handed to the dispatch collaborator.
// Delivery is fire-and-forget: the order engine never depends on it.
type Message struct {
	Template  Template          `json:"template"`
	Recipient string            `json:"recipient"`
	Subject   string            `json:"subject"`
	Vars      map[string]string `json:"vars,omitempty"`
}
