package models

// ContactMessage is a contact-form submission, it is never stored
type ContactMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message" validate:"required,notblank"`
}

// ContactResponse acknowledges a contact message
type ContactResponse struct {
	OK bool `json:"ok"`
}
