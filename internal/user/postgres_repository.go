package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/virtuebox/backoffice/internal/infra"
)

const userColumns = `id, name, email, password_hash, mobile, role, created_by,
	partner_id, is_active, deposit, share_percent, fee_percent, start_date, end_date,
	total_withdrawals, capital_due, roi, current_month_usd, current_month_inr,
	backup_balance, ic_market_account, trading_agreement,
	monthly_jan, monthly_feb, monthly_mar, monthly_apr, monthly_may, monthly_jun,
	monthly_jul, monthly_aug, monthly_sep, monthly_oct, monthly_nov, monthly_dec,
	created_at, updated_at`

// PostgresRepository implements Repository on a lazily-established pgx pool.
type PostgresRepository struct {
	db *infra.LazyPool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *infra.LazyPool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scannable interface {
	Scan(dest ...any) error
}

func scanUser(row scannable) (User, error) {
	var (
		u         User
		id        uuid.UUID
		partnerID *string
	)
	err := row.Scan(
		&id, &u.Name, &u.Email, &u.PasswordHash, &u.Mobile, &u.Role, &u.CreatedBy,
		&partnerID, &u.IsActive, &u.Deposit, &u.SharePercent, &u.FeePercent, &u.StartDate, &u.EndDate,
		&u.TotalWithdrawals, &u.CapitalDue, &u.ROI, &u.CurrentMonthUSD, &u.CurrentMonthINR,
		&u.BackupBalance, &u.ICMarketAccount, &u.TradingAgreement,
		&u.Monthly.Jan, &u.Monthly.Feb, &u.Monthly.Mar, &u.Monthly.Apr, &u.Monthly.May, &u.Monthly.Jun,
		&u.Monthly.Jul, &u.Monthly.Aug, &u.Monthly.Sep, &u.Monthly.Oct, &u.Monthly.Nov, &u.Monthly.Dec,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return User{}, err
	}
	u.ID = id.String()
	if partnerID != nil {
		u.PartnerID = *partnerID
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

// Create inserts a new record, translating unique violations into domain errors.
func (r *PostgresRepository) Create(ctx context.Context, u User) error {
	pool, err := r.db.Get(ctx)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(u.ID)
	if err != nil {
		return fmt.Errorf("%w: bad user id", ErrInvalidInput)
	}

	_, err = pool.Exec(ctx, `INSERT INTO users (
		id, name, email, password_hash, mobile, role, created_by,
		partner_id, is_active, deposit, share_percent, fee_percent, start_date, end_date,
		total_withdrawals, capital_due, roi, current_month_usd, current_month_inr,
		backup_balance, ic_market_account, trading_agreement,
		monthly_jan, monthly_feb, monthly_mar, monthly_apr, monthly_may, monthly_jun,
		monthly_jul, monthly_aug, monthly_sep, monthly_oct, monthly_nov, monthly_dec,
		created_at, updated_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
		$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34,$35,$36)`,
		userID, u.Name, u.Email, u.PasswordHash, u.Mobile, u.Role, u.CreatedBy,
		nullIfEmpty(u.PartnerID), u.IsActive, u.Deposit, u.SharePercent, u.FeePercent, u.StartDate, u.EndDate,
		u.TotalWithdrawals, u.CapitalDue, u.ROI, u.CurrentMonthUSD, u.CurrentMonthINR,
		u.BackupBalance, u.ICMarketAccount, u.TradingAgreement,
		u.Monthly.Jan, u.Monthly.Feb, u.Monthly.Mar, u.Monthly.Apr, u.Monthly.May, u.Monthly.Jun,
		u.Monthly.Jul, u.Monthly.Aug, u.Monthly.Sep, u.Monthly.Oct, u.Monthly.Nov, u.Monthly.Dec,
		u.CreatedAt.UTC(), u.UpdatedAt.UTC())
	return translateConflict(err)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	pool, err := r.db.Get(ctx)
	if err != nil {
		return User{}, err
	}
	row := pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	return r.findOne(ctx, id, "")
}

func (r *PostgresRepository) FindPartner(ctx context.Context, id string) (User, error) {
	return r.findOne(ctx, id, RolePartner)
}

func (r *PostgresRepository) findOne(ctx context.Context, id string, role Role) (User, error) {
	pool, err := r.db.Get(ctx)
	if err != nil {
		return User{}, err
	}
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrNotFound
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	args := []any{userID}
	if role != "" {
		query += ` AND role = $2`
		args = append(args, role)
	}

	u, err := scanUser(pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) ListPartners(ctx context.Context) ([]User, error) {
	pool, err := r.db.Get(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at ASC`, RolePartner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PostgresRepository) LatestPartnerID(ctx context.Context) (string, error) {
	pool, err := r.db.Get(ctx)
	if err != nil {
		return "", err
	}
	var partnerID string
	err = pool.QueryRow(ctx, `SELECT partner_id FROM users
		WHERE role = $1 AND partner_id IS NOT NULL
		ORDER BY created_at DESC, partner_id DESC LIMIT 1`, RolePartner).Scan(&partnerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return partnerID, err
}

// UpdatePartner builds a SET clause from the supplied fields only, so
// untouched columns keep their stored values, including individual months.
func (r *PostgresRepository) UpdatePartner(ctx context.Context, id string, patch PartnerPatch) (User, error) {
	pool, err := r.db.Get(ctx)
	if err != nil {
		return User{}, err
	}
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrNotFound
	}

	if patch.IsEmpty() {
		return r.FindPartner(ctx, id)
	}

	var (
		set  []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.PasswordHash != nil {
		add("password_hash", patch.PasswordHash)
	}
	if patch.Mobile != nil {
		add("mobile", *patch.Mobile)
	}
	if patch.IsActive != nil {
		add("is_active", *patch.IsActive)
	}
	if patch.Deposit != nil {
		add("deposit", *patch.Deposit)
	}
	if patch.SharePercent != nil {
		add("share_percent", *patch.SharePercent)
	}
	if patch.FeePercent != nil {
		add("fee_percent", *patch.FeePercent)
	}
	if patch.StartDate.Present {
		add("start_date", patch.StartDate.pointer())
	}
	if patch.EndDate.Present {
		add("end_date", patch.EndDate.pointer())
	}
	if patch.TotalWithdrawals != nil {
		add("total_withdrawals", *patch.TotalWithdrawals)
	}
	if patch.CapitalDue != nil {
		add("capital_due", *patch.CapitalDue)
	}
	if patch.ROI != nil {
		add("roi", *patch.ROI)
	}
	if patch.CurrentMonthUSD != nil {
		add("current_month_usd", *patch.CurrentMonthUSD)
	}
	if patch.CurrentMonthINR != nil {
		add("current_month_inr", *patch.CurrentMonthINR)
	}
	if patch.BackupBalance != nil {
		add("backup_balance", *patch.BackupBalance)
	}
	if patch.ICMarketAccount != nil {
		add("ic_market_account", *patch.ICMarketAccount)
	}
	if patch.TradingAgreement != nil {
		add("trading_agreement", *patch.TradingAgreement)
	}
	// Month keys are validated against MonthKeys before reaching the store,
	// so interpolating the column name is safe. Iterate in calendar order to
	// keep the statement deterministic.
	for _, key := range MonthKeys {
		if v, ok := patch.Monthly[key]; ok {
			add("monthly_"+key, v)
		}
	}

	args = append(args, userID)
	query := fmt.Sprintf(`UPDATE users SET %s, updated_at = now()
		WHERE id = $%d AND role = '%s' RETURNING %s`,
		strings.Join(set, ", "), len(args), RolePartner, userColumns)

	u, err := scanUser(pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, translateConflict(err)
	}
	return u, nil
}

func (r *PostgresRepository) SetPartnerActive(ctx context.Context, id string, active bool) (User, error) {
	pool, err := r.db.Get(ctx)
	if err != nil {
		return User{}, err
	}
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrNotFound
	}

	row := pool.QueryRow(ctx, `UPDATE users SET is_active = $1, updated_at = now()
		WHERE id = $2 AND role = $3 RETURNING `+userColumns, active, userID, RolePartner)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	pool, err := r.db.Get(ctx)
	if err != nil {
		return false, err
	}
	exclude := uuid.Nil
	if excludeID != "" {
		if parsed, err := uuid.Parse(excludeID); err == nil {
			exclude = parsed
		}
	}
	var taken bool
	err = pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`,
		email, exclude).Scan(&taken)
	return taken, err
}

// translateConflict maps unique-index violations onto domain errors.
func translateConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "partner_id") {
			return ErrPartnerIDExists
		}
		return ErrEmailExists
	}
	return err
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
