package domain

type Review struct {
	ID         int    `json:"reviewId"`
	ProductID  int    `json:"productId"`
	CustomerID int    `json:"customerId"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}
