package traffic

import (
	"encoding/json"

	"github.com/foodme/trafficgen/internal/utils"
)

// orderItem is a single line item in a FoodMe order.
type orderItem struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

type recipient struct {
	Name string `json:"name"`
}

type venue struct {
	Name string `json:"name"`
}

// order matches the body POST /api/order accepts.
type order struct {
	Items      []orderItem `json:"items"`
	DeliverTo  recipient   `json:"deliverTo"`
	Restaurant venue       `json:"restaurant"`
}

// orderFault enumerates the malformed order shapes used to provoke
// validation and parse failures in the target API.
type orderFault int

const (
	faultEmptyItems orderFault = iota
	faultMissingFields
	faultInvalidJSON
	faultWrongTypes
	faultNoBody

	orderFaultCount
)

// buildValidOrder returns a well-formed order body the API should accept.
// The pizza quantity varies so consecutive orders are not byte-identical.
func buildValidOrder(rng *utils.Random) []byte {
	o := order{
		Items: []orderItem{
			{Name: "Pizza", Qty: rng.IntRange(1, 3)},
			{Name: "Salad", Qty: 1},
		},
		DeliverTo:  recipient{Name: "Test User"},
		Restaurant: venue{Name: "Demo"},
	}
	body, _ := json.Marshal(o)
	return body
}

// buildInvalidOrder returns one of the malformed order bodies, chosen
// uniformly. A nil return means the request carries no body at all,
// which is itself one of the fault shapes.
func buildInvalidOrder(rng *utils.Random) []byte {
	switch orderFault(rng.IntN(int(orderFaultCount))) {
	case faultEmptyItems:
		return []byte(`{"items": []}`)
	case faultMissingFields:
		return []byte(`{"deliverTo": {}}`)
	case faultInvalidJSON:
		return []byte(`{ this is not valid json }`)
	case faultWrongTypes:
		return []byte(`{"items": [{"qty": "not-an-int"}]}`)
	default:
		return nil
	}
}
