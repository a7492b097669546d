package coinbase

type money struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type createChargeRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	PricingType string            `json:"pricing_type"`
	LocalPrice  money             `json:"local_price"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	RedirectURL string            `json:"redirect_url,omitempty"`
	CancelURL   string            `json:"cancel_url,omitempty"`
}

type charge struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	HostedURL string `json:"hosted_url"`
}

type chargeResponse struct {
	Data charge `json:"data"`
}

// ErrorResponse модель ошибки Coinbase Commerce
type ErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type webhookBody struct {
	Event struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data charge `json:"data"`
	} `json:"event"`
}
