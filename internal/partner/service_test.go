package partner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/virtuebox/backoffice/internal/user"
)

func newTestService() (*Service, user.Repository) {
	repo := user.NewMemoryRepository()
	return NewService(repo, bcrypt.MinCost), repo
}

func createPartner(t *testing.T, svc *Service, email string) user.User {
	t.Helper()
	p, err := svc.Create(context.Background(), CreateInput{
		Name:     "Partner " + email,
		Email:    email,
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("create %s: %v", email, err)
	}
	return p
}

func TestCreateAllocatesSequentialIDs(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first := createPartner(t, svc, "one@example.com")
	if first.PartnerID != "VBP10001" {
		t.Fatalf("expected seed id VBP10001, got %s", first.PartnerID)
	}

	second := createPartner(t, svc, "two@example.com")
	if second.PartnerID != "VBP10002" {
		t.Fatalf("expected VBP10002, got %s", second.PartnerID)
	}

	if first.Role != user.RolePartner || !first.IsActive {
		t.Fatalf("expected active partner record, got %+v", first)
	}

	got, err := svc.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PartnerID != first.PartnerID {
		t.Fatalf("expected %s, got %s", first.PartnerID, got.PartnerID)
	}
}

func TestNextIDContinuesFromLatest(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	seeded := user.User{
		ID:        "00000000-0000-0000-0000-000000000001",
		Name:      "Existing",
		Email:     "existing@example.com",
		Role:      user.RolePartner,
		PartnerID: "VBP10042",
		IsActive:  true,
	}
	if err := repo.Create(ctx, seeded); err != nil {
		t.Fatalf("seed: %v", err)
	}

	next := createPartner(t, svc, "next@example.com")
	if next.PartnerID != "VBP10043" {
		t.Fatalf("expected VBP10043, got %s", next.PartnerID)
	}
}

func TestConcurrentCreatesAllocateUniqueIDs(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	ids := make(chan string, n)
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := svc.Create(ctx, CreateInput{
				Name:     fmt.Sprintf("Partner %d", i),
				Email:    fmt.Sprintf("p%d@example.com", i),
				Password: "secret123",
			})
			if err != nil {
				errs <- err
				return
			}
			ids <- p.PartnerID
		}(i)
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent create: %v", err)
	}

	seen := map[string]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate partner id allocated: %s", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d unique ids, got %d", n, len(seen))
	}
}

func TestCreateRejectsMissingFieldsAndDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Name: "x", Email: "x@example.com"}); !errors.Is(err, user.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	createPartner(t, svc, "dup@example.com")
	_, err := svc.Create(ctx, CreateInput{Name: "y", Email: "DUP@example.com", Password: "pw123456"})
	if !errors.Is(err, user.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists for case-insensitive duplicate, got %v", err)
	}
}

func TestUpdateMergesOnlySuppliedFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p := createPartner(t, svc, "merge@example.com")

	deposit, share := 100.0, 5.0
	if _, err := svc.Update(ctx, p.ID, user.PartnerPatch{Deposit: &deposit, SharePercent: &share}); err != nil {
		t.Fatalf("prime update: %v", err)
	}

	newDeposit := 200.0
	updated, err := svc.Update(ctx, p.ID, user.PartnerPatch{Deposit: &newDeposit})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Deposit != 200 {
		t.Fatalf("expected deposit 200, got %v", updated.Deposit)
	}
	if updated.SharePercent != 5 {
		t.Fatalf("sharePercent should survive the update, got %v", updated.SharePercent)
	}

	updated, err = svc.Update(ctx, p.ID, user.PartnerPatch{Monthly: map[string]float64{"jan": 50}})
	if err != nil {
		t.Fatalf("monthly update: %v", err)
	}
	if updated.Monthly.Jan != 50 {
		t.Fatalf("expected jan 50, got %v", updated.Monthly.Jan)
	}
	if updated.Monthly.Feb != 0 || updated.Deposit != 200 {
		t.Fatalf("unrelated fields changed: %+v", updated)
	}
}

func TestUpdateEmailUniquenessExcludesSelf(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a := createPartner(t, svc, "a@example.com")
	createPartner(t, svc, "b@example.com")

	taken := "b@example.com"
	if _, err := svc.Update(ctx, a.ID, user.PartnerPatch{Email: &taken}); !errors.Is(err, user.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	// Re-submitting the record's own email is not a conflict.
	own := "A@example.com"
	updated, err := svc.Update(ctx, a.ID, user.PartnerPatch{Email: &own})
	if err != nil {
		t.Fatalf("self email update: %v", err)
	}
	if updated.Email != "a@example.com" {
		t.Fatalf("expected normalized email, got %s", updated.Email)
	}
}

func TestUpdateRehashesSuppliedPassword(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	p := createPartner(t, svc, "pw@example.com")
	before, _ := repo.FindByEmail(ctx, "pw@example.com")

	pw := "new-password"
	if _, err := svc.Update(ctx, p.ID, user.PartnerPatch{Password: &pw}); err != nil {
		t.Fatalf("update: %v", err)
	}

	after, _ := repo.FindByEmail(ctx, "pw@example.com")
	if string(before.PasswordHash) == string(after.PasswordHash) {
		t.Fatal("password hash should change")
	}
	if err := bcrypt.CompareHashAndPassword(after.PasswordHash, []byte(pw)); err != nil {
		t.Fatalf("new password does not verify: %v", err)
	}

	// Empty password means keep the existing hash.
	empty := ""
	if _, err := svc.Update(ctx, p.ID, user.PartnerPatch{Password: &empty}); err != nil {
		t.Fatalf("empty password update: %v", err)
	}
	final, _ := repo.FindByEmail(ctx, "pw@example.com")
	if string(final.PasswordHash) != string(after.PasswordHash) {
		t.Fatal("empty password must not change the stored hash")
	}
}

func TestUpdateUnknownPartnerIsNotFound(t *testing.T) {
	svc, _ := newTestService()
	name := "x"
	_, err := svc.Update(context.Background(), "missing-id", user.PartnerPatch{Name: &name})
	if !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestToggleTwiceRestoresOriginalState(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p := createPartner(t, svc, "toggle@example.com")

	once, err := svc.Toggle(ctx, p.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if once.IsActive == p.IsActive {
		t.Fatal("toggle should flip the active flag")
	}

	twice, err := svc.Toggle(ctx, p.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if twice.IsActive != p.IsActive {
		t.Fatal("double toggle should restore the original state")
	}

	if _, err := svc.Toggle(ctx, "missing-id"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
