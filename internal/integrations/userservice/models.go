package userservice

// User профиль пользователя из UserService
type User struct {
	ID    string `json:"id"`
	Role  string `json:"role"` // CLIENT, ESCORT, ADMIN
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
