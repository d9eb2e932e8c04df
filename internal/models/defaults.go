package models

// Fixed identifiers for the seeded document, so a fresh install on two
// devices produces the same starting aggregate.
const (
	SeedPartnerOneID = "partner-seed-1"
	SeedPartnerTwoID = "partner-seed-2"
	SeedAdminID      = "user-seed-admin"
)

// DefaultData builds the document a fresh installation starts from:
// the two founding partners and a single admin account.
// The caller provides today's Jalali date string.
func DefaultData(today string) AppData {
	return AppData{
		Products: []Product{},
		Partners: []Partner{
			{
				ID:   SeedPartnerOneID,
				Name: "شریک اول",
				Investments: []InvestmentRecord{
					{Amount: 10_000_000, Date: today, RegisteredBy: "system"},
				},
				JoinedAt: today,
			},
			{
				ID:   SeedPartnerTwoID,
				Name: "شریک دوم",
				Investments: []InvestmentRecord{
					{Amount: 30_000_000, Date: today, RegisteredBy: "system"},
				},
				JoinedAt: today,
			},
		},
		Payments: []PaymentHistory{},
		Invoices: []Invoice{},
		Users: []User{
			{
				ID:          SeedAdminID,
				Username:    "admin",
				Password:    "1234",
				Role:        "admin",
				Permissions: []string{},
				CreatedAt:   today,
			},
		},
	}
}
