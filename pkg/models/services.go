// Package models pkg/models/services.go
package models

import (
	"errors"
	"time"
)

// EventPageSize is the fixed number of records per event history page.
const EventPageSize = 20

// ServiceType identifies the kind of infrastructure a service represents.
type ServiceType string

const (
	TypeAPI      ServiceType = "api"
	TypeDatabase ServiceType = "database"
	TypeQueue    ServiceType = "queue"
	TypeCache    ServiceType = "cache"
	TypeStorage  ServiceType = "storage"
)

// ServiceStatus is the observed health of a service.
type ServiceStatus string

const (
	StatusOnline   ServiceStatus = "online"
	StatusOffline  ServiceStatus = "offline"
	StatusDegraded ServiceStatus = "degraded"
)

var (
	errNameRequired  = errors.New("service name is required")
	errInvalidType   = errors.New("invalid service type")
	errInvalidStatus = errors.New("invalid service status")
)

// Service is a monitored target as known to the provider.
type Service struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Type         ServiceType   `json:"type"`
	Status       ServiceStatus `json:"status"`
	URL          string        `json:"url,omitempty"`
	Description  string        `json:"description,omitempty"`
	LastChecked  time.Time     `json:"last_checked"`
	ResponseTime *int64        `json:"response_time,omitempty"` // milliseconds; nil means unknown
}

// StatusUpdate is the partial projection of Service carried by the
// lightweight polling feed.
type StatusUpdate struct {
	ID           string        `json:"id"`
	Status       ServiceStatus `json:"status"`
	LastChecked  time.Time     `json:"last_checked"`
	ResponseTime *int64        `json:"response_time,omitempty"`
}

// ServiceEvent is an immutable history record for a service.
type ServiceEvent struct {
	ID        string        `json:"id"`
	ServiceID string        `json:"service_id"`
	Status    ServiceStatus `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Message   string        `json:"message"`
	Duration  *int64        `json:"duration,omitempty"` // milliseconds
}

// ServiceFields is the user-supplied portion of a service used on create.
type ServiceFields struct {
	Name        string        `json:"name"`
	Type        ServiceType   `json:"type"`
	Status      ServiceStatus `json:"status"`
	URL         string        `json:"url,omitempty"`
	Description string        `json:"description,omitempty"`
}

// Validate checks the closed sets and required fields.
func (f *ServiceFields) Validate() error {
	if f.Name == "" {
		return errNameRequired
	}

	if !f.Type.Valid() {
		return errInvalidType
	}

	if !f.Status.Valid() {
		return errInvalidStatus
	}

	return nil
}

// ServicePatch is a partial update; nil fields are left unchanged.
type ServicePatch struct {
	Name        *string        `json:"name,omitempty"`
	Type        *ServiceType   `json:"type,omitempty"`
	Status      *ServiceStatus `json:"status,omitempty"`
	URL         *string        `json:"url,omitempty"`
	Description *string        `json:"description,omitempty"`
}

// Validate checks any fields present against the closed sets.
func (p *ServicePatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return errNameRequired
	}

	if p.Type != nil && !p.Type.Valid() {
		return errInvalidType
	}

	if p.Status != nil && !p.Status.Valid() {
		return errInvalidStatus
	}

	return nil
}

// Apply merges the patch into a service record.
func (p *ServicePatch) Apply(svc *Service) {
	if p.Name != nil {
		svc.Name = *p.Name
	}

	if p.Type != nil {
		svc.Type = *p.Type
	}

	if p.Status != nil {
		svc.Status = *p.Status
	}

	if p.URL != nil {
		svc.URL = *p.URL
	}

	if p.Description != nil {
		svc.Description = *p.Description
	}
}

func (t ServiceType) Valid() bool {
	switch t {
	case TypeAPI, TypeDatabase, TypeQueue, TypeCache, TypeStorage:
		return true
	default:
		return false
	}
}

func (s ServiceStatus) Valid() bool {
	switch s {
	case StatusOnline, StatusOffline, StatusDegraded:
		return true
	default:
		return false
	}
}
