package partner

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/virtuebox/backoffice/internal/user"
)

const (
	partnerIDPrefix = "VBP"
	seedPartnerID   = "VBP10001"

	// Another writer (a second replica) can allocate the same id between our
	// read and insert; the unique index catches it and we re-read and retry.
	allocRetries = 3
)

// Service manages partner records.
type Service struct {
	repo       user.Repository
	bcryptCost int

	// allocMu serializes id allocation plus insert within this process so
	// concurrent creations cannot read the same latest id.
	allocMu sync.Mutex
}

// NewService builds a partner service. A cost of 0 selects the bcrypt default.
func NewService(repo user.Repository, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

// CreateInput captures the fields an admin may set when creating a partner.
type CreateInput struct {
	Name             string
	Email            string
	Password         string
	Mobile           string
	IsActive         *bool
	CreatedBy        string
	Deposit          float64
	SharePercent     float64
	FeePercent       *float64
	StartDate        *time.Time
	EndDate          *time.Time
	ICMarketAccount  string
	TradingAgreement string
}

// Create provisions a PARTNER record with a freshly allocated partner id.
func (s *Service) Create(ctx context.Context, input CreateInput) (user.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" || input.Password == "" {
		return user.User{}, fmt.Errorf("%w: name, email, and password are required", user.ErrInvalidInput)
	}

	if taken, err := s.repo.EmailTaken(ctx, email, ""); err != nil {
		return user.User{}, err
	} else if taken {
		return user.User{}, user.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return user.User{}, err
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	s.allocMu.Lock()
	defer s.allocMu.Unlock()

	for attempt := 0; attempt < allocRetries; attempt++ {
		partnerID, err := s.nextPartnerID(ctx)
		if err != nil {
			return user.User{}, err
		}

		now := time.Now().UTC()
		u := user.User{
			ID:               uuid.New().String(),
			Name:             name,
			Email:            email,
			PasswordHash:     hash,
			Mobile:           strings.TrimSpace(input.Mobile),
			Role:             user.RolePartner,
			CreatedBy:        input.CreatedBy,
			PartnerID:        partnerID,
			IsActive:         active,
			Deposit:          input.Deposit,
			SharePercent:     input.SharePercent,
			FeePercent:       input.FeePercent,
			StartDate:        input.StartDate,
			EndDate:          input.EndDate,
			ICMarketAccount:  strings.TrimSpace(input.ICMarketAccount),
			TradingAgreement: strings.TrimSpace(input.TradingAgreement),
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		err = s.repo.Create(ctx, u)
		if err == nil {
			return u, nil
		}
		if errors.Is(err, user.ErrPartnerIDExists) {
			continue
		}
		return user.User{}, err
	}
	return user.User{}, fmt.Errorf("partner id allocation kept colliding after %d attempts", allocRetries)
}

// nextPartnerID parses the numeric suffix of the latest allocated id and
// increments it, seeding VBP10001 when no partner exists yet.
func (s *Service) nextPartnerID(ctx context.Context) (string, error) {
	latest, err := s.repo.LatestPartnerID(ctx)
	if err != nil {
		return "", err
	}
	if latest == "" {
		return seedPartnerID, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(latest, partnerIDPrefix))
	if err != nil {
		return "", fmt.Errorf("malformed partner id %q in store: %w", latest, err)
	}
	return fmt.Sprintf("%s%05d", partnerIDPrefix, n+1), nil
}

// List returns every partner record in creation order.
func (s *Service) List(ctx context.Context) ([]user.User, error) {
	return s.repo.ListPartners(ctx)
}

// Get fetches one partner by record id.
func (s *Service) Get(ctx context.Context, id string) (user.User, error) {
	return s.repo.FindPartner(ctx, id)
}

// Update applies a sparse patch: only supplied fields change. Email changes
// re-check uniqueness excluding this record; a non-empty password is
// re-hashed; empty email/password values are ignored like absent ones.
func (s *Service) Update(ctx context.Context, id string, patch user.PartnerPatch) (user.User, error) {
	if err := patch.Validate(); err != nil {
		return user.User{}, err
	}

	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if email == "" {
			patch.Email = nil
		} else {
			taken, err := s.repo.EmailTaken(ctx, email, id)
			if err != nil {
				return user.User{}, err
			}
			if taken {
				return user.User{}, user.ErrEmailExists
			}
			patch.Email = &email
		}
	}

	if patch.Password != nil {
		if *patch.Password == "" {
			patch.Password = nil
		} else {
			hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), s.bcryptCost)
			if err != nil {
				return user.User{}, err
			}
			patch.PasswordHash = hash
			patch.Password = nil
		}
	}

	return s.repo.UpdatePartner(ctx, id, patch)
}

// Toggle flips the active flag, the soft-delete mechanism for partners.
func (s *Service) Toggle(ctx context.Context, id string) (user.User, error) {
	u, err := s.repo.FindPartner(ctx, id)
	if err != nil {
		return user.User{}, err
	}
	return s.repo.SetPartnerActive(ctx, id, !u.IsActive)
}
