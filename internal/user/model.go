package user

import "time"

// Role discriminates the two kinds of account sharing the users store.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RolePartner Role = "PARTNER"
)

// Monthly is the fixed per-calendar-month USD breakdown. All twelve entries
// always exist; a month that was never set reads as 0.
type Monthly struct {
	Jan float64 `json:"jan"`
	Feb float64 `json:"feb"`
	Mar float64 `json:"mar"`
	Apr float64 `json:"apr"`
	May float64 `json:"may"`
	Jun float64 `json:"jun"`
	Jul float64 `json:"jul"`
	Aug float64 `json:"aug"`
	Sep float64 `json:"sep"`
	Oct float64 `json:"oct"`
	Nov float64 `json:"nov"`
	Dec float64 `json:"dec"`
}

// MonthKeys lists the recognized monthly field keys in calendar order.
var MonthKeys = []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

func (m *Monthly) set(key string, v float64) {
	switch key {
	case "jan":
		m.Jan = v
	case "feb":
		m.Feb = v
	case "mar":
		m.Mar = v
	case "apr":
		m.Apr = v
	case "may":
		m.May = v
	case "jun":
		m.Jun = v
	case "jul":
		m.Jul = v
	case "aug":
		m.Aug = v
	case "sep":
		m.Sep = v
	case "oct":
		m.Oct = v
	case "nov":
		m.Nov = v
	case "dec":
		m.Dec = v
	}
}

// User is the role-tagged account record. Admins only use the identity
// section; the partner profile fields are meaningful when Role is PARTNER.
// The password hash never serializes outward.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash []byte `json:"-"`
	Mobile       string `json:"mobile,omitempty"`
	Role         Role   `json:"role"`
	CreatedBy    string `json:"createdBy,omitempty"`

	// Partner profile. PartnerID is assigned once at creation (VBP#####)
	// and immutable afterwards; IsActive false is the soft-delete state.
	PartnerID        string     `json:"partnerId,omitempty"`
	IsActive         bool       `json:"isActive"`
	Deposit          float64    `json:"deposit"`
	SharePercent     float64    `json:"sharePercent"`
	FeePercent       *float64   `json:"feePercent,omitempty"`
	StartDate        *time.Time `json:"startDate,omitempty"`
	EndDate          *time.Time `json:"endDate,omitempty"`
	TotalWithdrawals float64    `json:"totalWithdrawals"`
	CapitalDue       float64    `json:"capitalDue"`
	ROI              float64    `json:"roi"`
	CurrentMonthUSD  float64    `json:"currentMonthUSD"`
	CurrentMonthINR  float64    `json:"currentMonthINR"`
	BackupBalance    float64    `json:"backupBalance"`
	ICMarketAccount  string     `json:"icMarketAccount,omitempty"`
	TradingAgreement string     `json:"tradingAgreement,omitempty"`
	Monthly          Monthly    `json:"monthly"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
