// Package backup defines the file format used to export and restore the
// whole application document.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hesabyar/internal/models"
)

// SchemaVersion tags every exported file so future formats can be told
// apart from this one.
const SchemaVersion = 1

// ErrInvalidBackup is returned for files that are malformed or missing
// one of the required containers. The current state is never touched
// when this is returned.
var ErrInvalidBackup = errors.New("invalid backup file")

// Snapshot is the on-disk backup document: the full aggregate plus
// provenance fields.
type Snapshot struct {
	AppName       string    `json:"app_name"`
	Description   string    `json:"description"`
	SchemaVersion int       `json:"schema_version"`
	CreatedAt     time.Time `json:"created_at"`

	Products []models.Product        `json:"products"`
	Partners []models.Partner        `json:"partners"`
	Payments []models.PaymentHistory `json:"payments"`
	Invoices []models.Invoice        `json:"invoices"`
	Users    []models.User           `json:"users"`
}

// Export wraps the current aggregate in a snapshot ready to download.
func Export(data models.AppData, description string) Snapshot {
	return Snapshot{
		AppName:       "hesabyar",
		Description:   description,
		SchemaVersion: SchemaVersion,
		CreatedAt:     time.Now(),
		Products:      data.Products,
		Partners:      data.Partners,
		Payments:      data.Payments,
		Invoices:      data.Invoices,
		Users:         data.Users,
	}
}

// Parse decodes raw snapshot bytes and validates the structure. The
// products, partners and invoices containers must all be present
// (possibly empty, never null); otherwise the file is rejected and the
// caller must keep its existing state untouched.
func Parse(raw []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if snap.Products == nil {
		return Snapshot{}, fmt.Errorf("%w: missing products", ErrInvalidBackup)
	}
	if snap.Partners == nil {
		return Snapshot{}, fmt.Errorf("%w: missing partners", ErrInvalidBackup)
	}
	if snap.Invoices == nil {
		return Snapshot{}, fmt.Errorf("%w: missing invoices", ErrInvalidBackup)
	}
	return snap, nil
}

// Restore converts a validated snapshot back into the aggregate that
// will replace the current document. Optional containers absent from
// older files come back as empty, not null.
func (s Snapshot) Restore() models.AppData {
	data := models.AppData{
		Products: s.Products,
		Partners: s.Partners,
		Payments: s.Payments,
		Invoices: s.Invoices,
		Users:    s.Users,
	}
	if data.Payments == nil {
		data.Payments = []models.PaymentHistory{}
	}
	if data.Users == nil {
		data.Users = []models.User{}
	}
	return data
}
