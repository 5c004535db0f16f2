package api

// Backend routes, relative to the API base URL (e.g. https://host/api)
const (
	RouteToken           = "/token/"
	RouteTokenRefresh    = "/token/refresh/"
	RouteRegister        = "/register/"
	RouteCars            = "/cars/"
	RouteMotorcycles     = "/motorcycles/"
	RouteSearch          = "/search/"
	RouteContactMessages = "/contact-messages/"
	RouteSubscribers     = "/subscribers/"
	RouteUsers           = "/users/"
	RouteDiscounts       = "/discounts/"
	RouteFeatured        = "/featured/"
)
