package domain

// NewsletterSubscription - заявка на подписку с публичной страницы.
type NewsletterSubscription struct {
	Email     string
	FirstName string
	LastName  string
	Interests []string
}

// Inquiry - запрос клиента по конкретному туру или автомобилю.
type Inquiry struct {
	Email     string
	ItemType  string // "tour" | "car"
	ItemID    string
	ItemTitle string
}

// Credentials - логин в админку.
type Credentials struct {
	Username string
	Password string
}
