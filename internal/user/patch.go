package user

import (
	"encoding/json"
	"fmt"
	"time"
)

// OptionalDate distinguishes the three states a date field can take in a
// partial update: absent (keep the stored value), null or empty (clear it),
// or a parseable date (set it).
type OptionalDate struct {
	Present bool
	Valid   bool
	Time    time.Time
}

// UnmarshalJSON is only invoked when the field appears in the document, so
// Present records exactly that.
func (d *OptionalDate) UnmarshalJSON(data []byte) error {
	d.Present = true
	d.Valid = false

	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: date must be a string or null", ErrInvalidInput)
	}
	if s == "" {
		return nil
	}

	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Valid = true
	d.Time = t
	return nil
}

// ParseDate accepts RFC 3339 timestamps or plain yyyy-mm-dd dates.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: unrecognized date %q", ErrInvalidInput, s)
	}
	return t.UTC(), nil
}

// PartnerPatch is a sparse update: nil pointers and non-present dates leave
// the stored field untouched. Monthly carries only the month keys the caller
// supplied. Password is resolved by the service into PasswordHash before the
// patch reaches a repository.
type PartnerPatch struct {
	Name             *string            `json:"name"`
	Email            *string            `json:"email"`
	Password         *string            `json:"password"`
	Mobile           *string            `json:"mobile"`
	IsActive         *bool              `json:"isActive"`
	Deposit          *float64           `json:"deposit"`
	SharePercent     *float64           `json:"sharePercent"`
	FeePercent       *float64           `json:"feePercent"`
	StartDate        OptionalDate       `json:"startDate"`
	EndDate          OptionalDate       `json:"endDate"`
	TotalWithdrawals *float64           `json:"totalWithdrawals"`
	CapitalDue       *float64           `json:"capitalDue"`
	ROI              *float64           `json:"roi"`
	CurrentMonthUSD  *float64           `json:"currentMonthUSD"`
	CurrentMonthINR  *float64           `json:"currentMonthINR"`
	BackupBalance    *float64           `json:"backupBalance"`
	ICMarketAccount  *string            `json:"icMarketAccount"`
	TradingAgreement *string            `json:"tradingAgreement"`
	Monthly          map[string]float64 `json:"monthly"`

	PasswordHash []byte `json:"-"`
}

// Validate rejects month keys outside the fixed twelve.
func (p PartnerPatch) Validate() error {
	for key := range p.Monthly {
		if !validMonthKey(key) {
			return fmt.Errorf("%w: unknown month key %q", ErrInvalidInput, key)
		}
	}
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (p PartnerPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.PasswordHash == nil && p.Mobile == nil &&
		p.IsActive == nil && p.Deposit == nil && p.SharePercent == nil && p.FeePercent == nil &&
		!p.StartDate.Present && !p.EndDate.Present && p.TotalWithdrawals == nil &&
		p.CapitalDue == nil && p.ROI == nil && p.CurrentMonthUSD == nil && p.CurrentMonthINR == nil &&
		p.BackupBalance == nil && p.ICMarketAccount == nil && p.TradingAgreement == nil &&
		len(p.Monthly) == 0
}

// Apply merges the patch into a record in place. The in-memory repository
// uses it directly; the Postgres repository mirrors the same semantics in SQL.
func (p PartnerPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PasswordHash != nil {
		u.PasswordHash = p.PasswordHash
	}
	if p.Mobile != nil {
		u.Mobile = *p.Mobile
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.Deposit != nil {
		u.Deposit = *p.Deposit
	}
	if p.SharePercent != nil {
		u.SharePercent = *p.SharePercent
	}
	if p.FeePercent != nil {
		fee := *p.FeePercent
		u.FeePercent = &fee
	}
	if p.StartDate.Present {
		u.StartDate = p.StartDate.pointer()
	}
	if p.EndDate.Present {
		u.EndDate = p.EndDate.pointer()
	}
	if p.TotalWithdrawals != nil {
		u.TotalWithdrawals = *p.TotalWithdrawals
	}
	if p.CapitalDue != nil {
		u.CapitalDue = *p.CapitalDue
	}
	if p.ROI != nil {
		u.ROI = *p.ROI
	}
	if p.CurrentMonthUSD != nil {
		u.CurrentMonthUSD = *p.CurrentMonthUSD
	}
	if p.CurrentMonthINR != nil {
		u.CurrentMonthINR = *p.CurrentMonthINR
	}
	if p.BackupBalance != nil {
		u.BackupBalance = *p.BackupBalance
	}
	if p.ICMarketAccount != nil {
		u.ICMarketAccount = *p.ICMarketAccount
	}
	if p.TradingAgreement != nil {
		u.TradingAgreement = *p.TradingAgreement
	}
	for key, v := range p.Monthly {
		u.Monthly.set(key, v)
	}
}

func (d OptionalDate) pointer() *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

func validMonthKey(key string) bool {
	for _, k := range MonthKeys {
		if k == key {
			return true
		}
	}
	return false
}
