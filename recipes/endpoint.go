package recipes

import (
	"fmt"
	"strconv"

	"github.com/s0up4200/recipes/network"
)

// DefaultBaseURL is the public recipes service
const DefaultBaseURL = "https://dummyjson.com"

// Endpoint is the closed set of recipe operations.
// Only the types in this file implement it.
type Endpoint interface {
	endpoint()
}

// ListEndpoint fetches one page of recipes
type ListEndpoint struct {
	Limit int
	Skip  int
}

// SearchEndpoint searches recipes by free text
type SearchEndpoint struct {
	Query string
}

// DetailsEndpoint fetches a single recipe
type DetailsEndpoint struct {
	ID int
}

func (ListEndpoint) endpoint()    {}
func (SearchEndpoint) endpoint()  {}
func (DetailsEndpoint) endpoint() {}

// Describe maps an endpoint to its request descriptor. BaseURL is left empty
// so the client's configured base applies.
func Describe(ep Endpoint) network.Descriptor {
	switch e := ep.(type) {
	case ListEndpoint:
		return network.Descriptor{
			Path:   "/recipes",
			Method: network.MethodGet,
			Query: []network.QueryItem{
				{Name: "limit", Value: strconv.Itoa(e.Limit)},
				{Name: "skip", Value: strconv.Itoa(e.Skip)},
			},
		}
	case SearchEndpoint:
		return network.Descriptor{
			Path:   "/recipes/search",
			Method: network.MethodGet,
			Query:  []network.QueryItem{{Name: "q", Value: e.Query}},
		}
	case DetailsEndpoint:
		return network.Descriptor{
			Path:   fmt.Sprintf("/recipes/%d", e.ID),
			Method: network.MethodGet,
		}
	default:
		panic(fmt.Sprintf("recipes: unhandled endpoint %T", ep))
	}
}
