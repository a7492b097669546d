package brevo

type contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type emailRequest struct {
	Sender      contact   `json:"sender"`
	To          []contact `json:"to"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"htmlContent,omitempty"`
	TextContent string    `json:"textContent"`
}

type smsRequest struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
	Type      string `json:"type"`
}

// ErrorResponse модель ошибки Brevo API
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Email письмо одному получателю
type Email struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
}

// SMS транзакционное сообщение на номер в международном формате
type SMS struct {
	Phone   string
	Content string
}
