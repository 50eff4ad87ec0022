package traffic

import (
	"net/http"
	"strings"
	"testing"

	"github.com/foodme/trafficgen/internal/utils"
)

func TestParseEndpoint(t *testing.T) {
	for _, ep := range Endpoints {
		got, ok := ParseEndpoint(string(ep))
		if !ok || got != ep {
			t.Errorf("Expected %q to parse, got %q ok=%v", ep, got, ok)
		}
	}

	if _, ok := ParseEndpoint("delete_everything"); ok {
		t.Error("Expected unknown endpoint name to be rejected")
	}
	if _, ok := ParseEndpoint(""); ok {
		t.Error("Expected empty endpoint name to be rejected")
	}
}

func TestBuildRequest_MethodsAndPaths(t *testing.T) {
	rng := utils.NewRandom(1)
	base := "http://host:3000"

	tests := []struct {
		endpoint Endpoint
		inject   bool
		method   string
		path     string
	}{
		{EndpointRoot, false, http.MethodGet, "/"},
		{EndpointRoot, true, http.MethodGet, "/"},
		{EndpointList, false, http.MethodGet, "/api/restaurant"},
		{EndpointList, true, http.MethodGet, "/api/restaurant"},
		{EndpointPostOrder, false, http.MethodPost, "/api/order"},
		{EndpointBogus, false, http.MethodGet, "/api/nope"},
		{EndpointBogus, true, http.MethodGet, "/totally-invalid"},
	}

	for _, test := range tests {
		req := buildRequest(rng, base, nil, test.endpoint, test.inject)
		if req.Method != test.method {
			t.Errorf("%s inject=%v: expected method %s, got %s", test.endpoint, test.inject, test.method, req.Method)
		}
		if req.URL != base+test.path {
			t.Errorf("%s inject=%v: expected URL %s, got %s", test.endpoint, test.inject, base+test.path, req.URL)
		}
	}
}

func TestBuildRequest_GetOne(t *testing.T) {
	rng := utils.NewRandom(2)
	base := "http://host"

	for i := 0; i < 20; i++ {
		req := buildRequest(rng, base, nil, EndpointOne, false)
		id := strings.TrimPrefix(req.URL, base+"/api/restaurant/")
		known := false
		for _, candidate := range restaurantIDs {
			if candidate == id {
				known = true
				break
			}
		}
		if !known {
			t.Fatalf("Expected a catalog restaurant id, got %q", id)
		}
	}

	req := buildRequest(rng, base, nil, EndpointOne, true)
	if req.URL != base+"/api/restaurant/"+invalidRestaurantID {
		t.Errorf("Expected injected lookup to miss, got %s", req.URL)
	}
}

func TestBuildRequest_OrderContentType(t *testing.T) {
	rng := utils.NewRandom(3)

	req := buildRequest(rng, "http://host", http.Header{}, EndpointPostOrder, false)
	if req.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Expected application/json, got %q", req.Header.Get("Content-Type"))
	}
	if req.Body == nil {
		t.Fatal("Expected a valid order body")
	}

	// An operator-supplied content type wins over the default.
	hdr := http.Header{}
	hdr.Set("Content-Type", "text/plain")
	req = buildRequest(rng, "http://host", hdr, EndpointPostOrder, false)
	if req.Header.Get("Content-Type") != "text/plain" {
		t.Errorf("Expected operator content type to survive, got %q", req.Header.Get("Content-Type"))
	}
}

func TestBuildRequest_DoesNotMutateTemplate(t *testing.T) {
	rng := utils.NewRandom(4)
	template := http.Header{}
	template.Set("X-Traffic-Type", "mixed")

	buildRequest(rng, "http://host", template, EndpointPostOrder, false)
	buildRequest(rng, "http://host", template, EndpointPostOrder, true)

	if len(template) != 1 || template.Get("Content-Type") != "" {
		t.Errorf("Header template was mutated: %v", template)
	}
}
