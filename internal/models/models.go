package models

// User - A person allowed to sign in to the shop panel
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"` // unique, compared case-insensitively
	Password string `json:"password"` // stored as-is, legacy behavior
	Role     string `json:"role"`     // 'admin' or 'staff'
	// Permissions lists the feature tags a staff user may touch.
	// Role 'admin' implies every feature regardless of this list.
	Permissions []string `json:"permissions"`
	CreatedAt   string   `json:"created_at"` // Jalali date, e.g. "1404/06/08"
}

// Product - The Inventory
type Product struct {
	ID            string  `json:"id"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	BuyPrice      float64 `json:"buy_price"`
	ShippingCost  float64 `json:"shipping_cost"`
	MarginPercent float64 `json:"margin_percent"`
	// SellPrice is always derived: round((buy+shipping) * (1 + margin/100))
	SellPrice    float64 `json:"sell_price"`
	Quantity     int     `json:"quantity"` // never negative after a committed operation
	RegisteredAt string  `json:"registered_at"`
	RegisteredBy string  `json:"registered_by"`
}

// CostBasis is the per-unit cost used for profit calculations.
func (p Product) CostBasis() float64 {
	return p.BuyPrice + p.ShippingCost
}

// InvestmentRecord - One capital injection by a partner
type InvestmentRecord struct {
	Amount       float64 `json:"amount"` // always positive
	Date         string  `json:"date"`
	RegisteredBy string  `json:"registered_by"`
}

// Partner - A profit-sharing partner of the shop
type Partner struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Investments []InvestmentRecord `json:"investments"`
	JoinedAt    string             `json:"joined_at"`
}

// TotalInvestment sums every investment record for this partner.
func (p Partner) TotalInvestment() float64 {
	var total float64
	for _, inv := range p.Investments {
		total += inv.Amount
	}
	return total
}

// PaymentHistory - One dividend payout row for one partner.
// Rows are append-only; deleting a partner leaves its rows orphaned.
type PaymentHistory struct {
	ID           string  `json:"id"`
	PartnerID    string  `json:"partner_id"`
	Amount       float64 `json:"amount"`
	Period       string  `json:"period"` // Jalali year/month key, e.g. "1404/06"
	Date         string  `json:"date"`
	Description  string  `json:"description"`
	RegisteredBy string  `json:"registered_by"`
}

// InvoiceItem - One line of a sale invoice
type InvoiceItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"` // snapshot of product name at sale time
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"` // snapshot of sell price at sale time
}

// Invoice - The Transaction Header
type Invoice struct {
	ID              string        `json:"id"`
	CustomerName    string        `json:"customer_name"`
	CustomerPhone   string        `json:"customer_phone"`
	CustomerAddress string        `json:"customer_address"`
	Items           []InvoiceItem `json:"items"`
	TotalAmount     float64       `json:"total_amount"` // always Σ quantity×price
	Date            string        `json:"date"`
	RegisteredBy    string        `json:"registered_by"`
}

// ComputeTotal recalculates the invoice total from its line items.
func (inv Invoice) ComputeTotal() float64 {
	var total float64
	for _, item := range inv.Items {
		total += float64(item.Quantity) * item.Price
	}
	return total
}

// AppData - The aggregate root. This is the single unit of persistence:
// every save writes the whole document, every load reads the whole document.
type AppData struct {
	Products []Product        `json:"products"`
	Partners []Partner        `json:"partners"`
	Payments []PaymentHistory `json:"payments"`
	Invoices []Invoice        `json:"invoices"`
	Users    []User           `json:"users"`
}

// Clone deep-copies the aggregate so a transform can fail halfway
// without leaving partial changes behind.
func (d AppData) Clone() AppData {
	out := AppData{
		Products: make([]Product, len(d.Products)),
		Partners: make([]Partner, len(d.Partners)),
		Payments: make([]PaymentHistory, len(d.Payments)),
		Invoices: make([]Invoice, len(d.Invoices)),
		Users:    make([]User, len(d.Users)),
	}
	copy(out.Products, d.Products)
	copy(out.Payments, d.Payments)
	for i, p := range d.Partners {
		cp := p
		cp.Investments = make([]InvestmentRecord, len(p.Investments))
		copy(cp.Investments, p.Investments)
		out.Partners[i] = cp
	}
	for i, inv := range d.Invoices {
		ci := inv
		ci.Items = make([]InvoiceItem, len(inv.Items))
		copy(ci.Items, inv.Items)
		out.Invoices[i] = ci
	}
	for i, u := range d.Users {
		cu := u
		cu.Permissions = make([]string, len(u.Permissions))
		copy(cu.Permissions, u.Permissions)
		out.Users[i] = cu
	}
	return out
}

// FindProduct returns a pointer into the slice, or nil.
func (d *AppData) FindProduct(id string) *Product {
	for i := range d.Products {
		if d.Products[i].ID == id {
			return &d.Products[i]
		}
	}
	return nil
}

// FindPartner returns a pointer into the slice, or nil.
func (d *AppData) FindPartner(id string) *Partner {
	for i := range d.Partners {
		if d.Partners[i].ID == id {
			return &d.Partners[i]
		}
	}
	return nil
}

// FindInvoice returns a pointer into the slice, or nil.
func (d *AppData) FindInvoice(id string) *Invoice {
	for i := range d.Invoices {
		if d.Invoices[i].ID == id {
			return &d.Invoices[i]
		}
	}
	return nil
}
