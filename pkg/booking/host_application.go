package booking

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// HostingType is the kind of offering a prospective host wants to list.
type HostingType string

const (
	HostingTypeHome       HostingType = "home"
	HostingTypeExperience HostingType = "experience"
	HostingTypeService    HostingType = "service"
)

// HostApplicationStatusPending is the only status the public form can create.
const HostApplicationStatusPending = "pending"

// ParseHostingType validates a hosting type. Blank input selects HostingTypeHome.
func ParseHostingType(raw string) (HostingType, error) {
	switch HostingType(strings.ToLower(strings.TrimSpace(raw))) {
	case "", HostingTypeHome:
		return HostingTypeHome, nil
	case HostingTypeExperience:
		return HostingTypeExperience, nil
	case HostingTypeService:
		return HostingTypeService, nil
	default:
		return "", fmt.Errorf("%w: unknown hosting type %q", ErrInvalidHostApplication, raw)
	}
}

// String returns the stored value.
func (hostingType HostingType) String() string {
	return string(hostingType)
}

// HostApplication is a request from a prospective host to be listed.
type HostApplication struct {
	ID          string
	Type        HostingType
	FullName    string
	Email       string
	City        string
	Title       string
	Description string
	Status      string
	CreatedAt   time.Time
}

// SubmitHostApplication records a pending application. No session is needed.
func (service *Service) SubmitHostApplication(ctx context.Context, application HostApplication) (HostApplication, error) {
	normalized, err := normalizeHostApplication(application)
	if err != nil {
		return HostApplication{}, err
	}
	normalized.Status = HostApplicationStatusPending
	normalized.CreatedAt = service.nowFn().UTC()

	created, operationError := service.store.CreateHostApplication(ctx, normalized)
	service.logOperation(ctx, OperationLog{
		Operation: operationHostApplication,
		Error:     operationError,
	})
	if operationError != nil {
		return HostApplication{}, operationError
	}
	return created, nil
}

// ListHostApplications returns submitted applications, newest first. Requires an admin session.
func (service *Service) ListHostApplications(ctx context.Context, session Session) ([]HostApplication, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	return service.store.ListHostApplications(ctx)
}

func normalizeHostApplication(application HostApplication) (HostApplication, error) {
	hostingType, err := ParseHostingType(application.Type.String())
	if err != nil {
		return HostApplication{}, err
	}
	normalized := HostApplication{
		Type:        hostingType,
		FullName:    strings.TrimSpace(application.FullName),
		Email:       strings.TrimSpace(application.Email),
		City:        strings.TrimSpace(application.City),
		Title:       strings.TrimSpace(application.Title),
		Description: strings.TrimSpace(application.Description),
	}
	required := []struct {
		field string
		value string
	}{
		{field: "full name", value: normalized.FullName},
		{field: "email", value: normalized.Email},
		{field: "city", value: normalized.City},
		{field: "title", value: normalized.Title},
		{field: "description", value: normalized.Description},
	}
	for _, entry := range required {
		if entry.value == "" {
			return HostApplication{}, fmt.Errorf("%w: %s is required", ErrInvalidHostApplication, entry.field)
		}
	}
	address, err := mail.ParseAddress(normalized.Email)
	if err != nil || address.Address != normalized.Email {
		return HostApplication{}, fmt.Errorf("%w: malformed email", ErrInvalidHostApplication)
	}
	return normalized, nil
}
