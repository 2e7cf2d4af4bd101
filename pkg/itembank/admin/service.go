// Package admin provides operational views over the whole item bank.
package admin

import (
	"context"

	"github.com/tendant/itembank/pkg/itembank/repo/sqlstore"
)

// AdminService defines the interface for administrative operations.
//
// IMPORTANT: Endpoints using this service should be protected with appropriate
// authentication and authorization middleware.
type AdminService interface {
	// GetStatistics returns totals and breakdowns by status and item type.
	GetStatistics(ctx context.Context) (*Statistics, error)
}

// New creates a new AdminService reading from db.
func New(db sqlstore.DB) AdminService {
	return &adminService{db: db}
}
