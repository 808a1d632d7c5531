package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"travel-web/internal/core/domain"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// в сообщениях об ошибках используем имена полей из JSON
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// NewsletterRequest - тело POST /api/v1/newsletter/subscribe
type NewsletterRequest struct {
	Email     string   `json:"email" validate:"required,email"`
	FirstName string   `json:"firstName" validate:"required,max=100"`
	LastName  string   `json:"lastName" validate:"max=100"`
	Interests []string `json:"interests" validate:"max=20,dive,required,max=50"`
}

func (r NewsletterRequest) toDomain() domain.NewsletterSubscription {
	interests := r.Interests
	if interests == nil {
		interests = []string{}
	}
	return domain.NewsletterSubscription{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Interests: interests,
	}
}

// ItemID принимает id и строкой, и числом.
type ItemID string

func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ItemID(n.String())
	return nil
}

// InquiryRequest - тело POST /api/v1/inquiries
type InquiryRequest struct {
	Email        string `json:"email" validate:"required,email"`
	ConfirmEmail string `json:"confirmEmail" validate:"required,eqfield=Email"`
	Type         string `json:"type" validate:"required,oneof=tour car"`
	ID           ItemID `json:"id" validate:"required"`
	ItemTitle    string `json:"itemTitle" validate:"required,max=200"`
}

func (r InquiryRequest) toDomain() domain.Inquiry {
	return domain.Inquiry{
		Email:     r.Email,
		ItemType:  r.Type,
		ItemID:    string(r.ID),
		ItemTitle: r.ItemTitle,
	}
}

// LoginRequest - тело POST /api/v1/auth/login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// MessageResponse - ответ без данных, только текст для пользователя.
type MessageResponse struct {
	Message string `json:"message"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

// validationMessage превращает ошибку валидатора в одно сообщение для пользователя.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email address"
	case "eqfield":
		return "Emails do not match"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s is too long", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
