package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Client reads and writes catalog resources. Its http.Client is expected to use
// the authorizing transport so every call carries the session's access token.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// GetJSON issues a GET for path (relative to the base URL) and decodes the response into out
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return doJSON(ctx, c.httpClient, http.MethodGet, joinURL(c.baseURL, path, query), nil, out)
}

func (c *Client) Cars(ctx context.Context) ([]Car, error) {
	var cars []Car
	if err := c.GetJSON(ctx, RouteCars, nil, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

// FilterCars lists cars matching the given query filters. Empty values are dropped.
func (c *Client) FilterCars(ctx context.Context, filters map[string]string) ([]Car, error) {
	var cars []Car
	if err := c.GetJSON(ctx, RouteCars, filterValues(filters), &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

func (c *Client) Car(ctx context.Context, id int64) (*Car, error) {
	var car Car
	if err := c.GetJSON(ctx, itemRoute(RouteCars, id), nil, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

func (c *Client) Motorcycles(ctx context.Context) ([]Motorcycle, error) {
	var motorcycles []Motorcycle
	if err := c.GetJSON(ctx, RouteMotorcycles, nil, &motorcycles); err != nil {
		return nil, err
	}
	return motorcycles, nil
}

func (c *Client) FilterMotorcycles(ctx context.Context, filters map[string]string) ([]Motorcycle, error) {
	var motorcycles []Motorcycle
	if err := c.GetJSON(ctx, RouteMotorcycles, filterValues(filters), &motorcycles); err != nil {
		return nil, err
	}
	return motorcycles, nil
}

func (c *Client) Motorcycle(ctx context.Context, id int64) (*Motorcycle, error) {
	var m Motorcycle
	if err := c.GetJSON(ctx, itemRoute(RouteMotorcycles, id), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Search runs a free text query over titles, descriptions, brands and models
func (c *Client) Search(ctx context.Context, query string, kind SearchType) ([]Vehicle, error) {
	if kind == "" {
		kind = SearchAll
	}
	var results []Vehicle
	q := url.Values{"q": {query}, "type": {string(kind)}}
	if err := c.GetJSON(ctx, RouteSearch, q, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) ContactMessages(ctx context.Context) ([]ContactMessage, error) {
	var msgs []ContactMessage
	if err := c.GetJSON(ctx, RouteContactMessages, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (c *Client) CreateContactMessage(ctx context.Context, req ContactMessageRequest) (*ContactMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var msg ContactMessage
	if err := doJSON(ctx, c.httpClient, http.MethodPost, joinURL(c.baseURL, RouteContactMessages, nil), req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) DeleteContactMessage(ctx context.Context, id int64) error {
	return doJSON(ctx, c.httpClient, http.MethodDelete, joinURL(c.baseURL, itemRoute(RouteContactMessages, id), nil), nil, nil)
}

func (c *Client) Subscribers(ctx context.Context) ([]Subscriber, error) {
	var subs []Subscriber
	if err := c.GetJSON(ctx, RouteSubscribers, nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (c *Client) SubscribeToNewsletter(ctx context.Context, email string) (*Subscriber, error) {
	req := subscribeRequest{Email: email}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	var sub Subscriber
	if err := doJSON(ctx, c.httpClient, http.MethodPost, joinURL(c.baseURL, RouteSubscribers, nil), req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (c *Client) Users(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.GetJSON(ctx, RouteUsers, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) FeaturedItems(ctx context.Context) ([]FeaturedItem, error) {
	var items []FeaturedItem
	if err := c.GetJSON(ctx, RouteFeatured, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) Discounts(ctx context.Context) ([]Discount, error) {
	var discounts []Discount
	if err := c.GetJSON(ctx, RouteDiscounts, nil, &discounts); err != nil {
		return nil, err
	}
	return discounts, nil
}

func itemRoute(collection string, id int64) string {
	return collection + strconv.FormatInt(id, 10) + "/"
}

func filterValues(filters map[string]string) url.Values {
	q := url.Values{}
	for k, v := range filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}
