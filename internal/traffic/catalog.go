// Package traffic implements the synthetic load cycle against a FoodMe
// deployment.
//
// FILE: catalog.go
// PURPOSE: The closed set of API endpoints the generator knows how to
// call, and the request construction for each one, including the
// deliberately malformed variants used for fault injection.
//
// KEY TYPES:
// - Endpoint: Named API operations (get_root, get_list, get_one, ...)
//
// KEY FUNCTIONS:
// - buildRequest: Turns an endpoint pick plus an injection decision
//   into a concrete HTTP request
//
// RELATED FILES:
// - order.go: Valid and malformed order payload builders
// - plan.go: Compiled weights, error rates, and header template
// - generator.go: The pacing loop that drives request cycles
package traffic

import (
	"net/http"

	"github.com/foodme/trafficgen/internal/transport"
	"github.com/foodme/trafficgen/internal/utils"
)

// Endpoint identifies one of the FoodMe API operations the generator can
// exercise. Endpoint names double as the config keys for weights and
// error rates.
type Endpoint string

const (
	EndpointRoot      Endpoint = "get_root"
	EndpointList      Endpoint = "get_list"
	EndpointOne       Endpoint = "get_one"
	EndpointPostOrder Endpoint = "post_order"
	EndpointBogus     Endpoint = "bogus"
)

// Endpoints lists every known endpoint in presentation order.
var Endpoints = []Endpoint{
	EndpointRoot,
	EndpointList,
	EndpointOne,
	EndpointPostOrder,
	EndpointBogus,
}

// ParseEndpoint maps a config key to its Endpoint and reports whether
// the name is known.
func ParseEndpoint(name string) (Endpoint, bool) {
	switch Endpoint(name) {
	case EndpointRoot, EndpointList, EndpointOne, EndpointPostOrder, EndpointBogus:
		return Endpoint(name), true
	}
	return "", false
}

// buildRequest constructs the HTTP request for one traffic cycle.
// inject asks for the endpoint's malformed variant; endpoints without
// one (get_root, get_list) ignore it. The header template is only read,
// never written: the order variant clones it before adding a content
// type.
func buildRequest(rng *utils.Random, baseURL string, header http.Header, ep Endpoint, inject bool) transport.Request {
	switch ep {
	case EndpointRoot:
		return transport.Request{
			Method: http.MethodGet,
			URL:    baseURL + "/",
			Header: header,
		}

	case EndpointList:
		return transport.Request{
			Method: http.MethodGet,
			URL:    baseURL + "/api/restaurant",
			Header: header,
		}

	case EndpointOne:
		id := invalidRestaurantID
		if !inject {
			id = rng.PickString(restaurantIDs)
		}
		return transport.Request{
			Method: http.MethodGet,
			URL:    baseURL + "/api/restaurant/" + id,
			Header: header,
		}

	case EndpointPostOrder:
		body := buildValidOrder(rng)
		if inject {
			body = buildInvalidOrder(rng)
		}
		// The order endpoint gets a JSON content type unless the
		// operator's own headers already claim one.
		hdr := header.Clone()
		if hdr == nil {
			hdr = http.Header{}
		}
		if hdr.Get("Content-Type") == "" {
			hdr.Set("Content-Type", "application/json")
		}
		return transport.Request{
			Method: http.MethodPost,
			URL:    baseURL + "/api/order",
			Header: hdr,
			Body:   body,
		}

	case EndpointBogus:
		path := "/api/nope"
		if inject {
			path = "/totally-invalid"
		}
		return transport.Request{
			Method: http.MethodGet,
			URL:    baseURL + path,
			Header: header,
		}
	}

	// Unknown endpoints cannot reach here: plans reject them at compile
	// time. Return a root request rather than panic in a hot loop.
	return transport.Request{
		Method: http.MethodGet,
		URL:    baseURL + "/",
		Header: header,
	}
}
