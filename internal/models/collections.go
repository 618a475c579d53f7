package models

// Collection names used by the store.
const (
	PartsCollection   = "parts"
	UsersCollection   = "users"
	ReviewsCollection = "reviews"
	OrdersCollection  = "orders"
	BlogsCollection   = "blogs"
)

// AllCollections lists every collection the service touches.
var AllCollections = []string{
	PartsCollection,
	UsersCollection,
	ReviewsCollection,
	OrdersCollection,
	BlogsCollection,
}
