package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Operator is the staff identity attached to admin actions. There is no
// session or token on top of it; the admin surface sends the name along
// with each action.
type Operator struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// StaffService backs the mock operator sign-in. It only resolves an
// identity; nothing in the API is gated on it.
type StaffService interface {
	Login(name, accessCode string) (*Operator, error)
}

type staffService struct {
	accessHash []byte
}

func NewStaffService(accessCode string) (StaffService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(accessCode), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash access code: %w", err)
	}
	return &staffService{accessHash: hash}, nil
}

func (s *staffService) Login(name, accessCode string) (*Operator, error) {
	if name == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.accessHash, []byte(accessCode)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Operator{Name: name, Role: "admin"}, nil
}
