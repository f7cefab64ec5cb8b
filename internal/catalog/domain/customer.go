package domain

// Customer owns orders and reviews. OrderIDs is derived from the orders
// table, in creation order.
type Customer struct {
	ID       int    `json:"customerId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	OrderIDs []int  `json:"orderIds"`
}
