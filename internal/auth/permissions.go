package auth

// Feature tags a staff user's permission list can grant. Admins hold
// every feature implicitly.
const (
	FeatureProducts = "products"
	FeatureInvoices = "invoices"
	FeaturePartners = "partners"
	FeaturePayments = "payments"
	FeatureUsers    = "users"
	FeatureBackup   = "backup"
	FeatureReports  = "reports"
)

// RoleAdmin short-circuits every permission check.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// AllFeatures lists every known feature tag.
func AllFeatures() []string {
	return []string{
		FeatureProducts, FeatureInvoices, FeaturePartners,
		FeaturePayments, FeatureUsers, FeatureBackup, FeatureReports,
	}
}

// Allowed decides whether a user with the given role and stored
// permission list may use a feature. Admins are allowed everything no
// matter what their stored list says.
func Allowed(role string, permissions []string, feature string) bool {
	if role == RoleAdmin {
		return true
	}
	for _, p := range permissions {
		if p == feature {
			return true
		}
	}
	return false
}
