package stores

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
	pkgerrors "github.com/orderlyy/orderlyy-backend/pkg/errors"
)

type stubStoreRepo struct {
	store   *models.Store
	err     error
	created *models.Store
	updated *models.Store
}

func (s *stubStoreRepo) Create(_ context.Context, dto CreateStoreDTO) (*models.Store, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = dto.ToModel()
	return s.created, nil
}

func (s *stubStoreRepo) FindByID(context.Context, uuid.UUID) (*models.Store, error) {
	if s.store == nil {
		return nil, firstErr(s.err, gorm.ErrRecordNotFound)
	}
	return s.store, s.err
}

func (s *stubStoreRepo) FindByOwner(context.Context, int64) (*models.Store, error) {
	if s.store == nil {
		return nil, firstErr(s.err, gorm.ErrRecordNotFound)
	}
	return s.store, s.err
}

func (s *stubStoreRepo) FindByToken(context.Context, string) (*models.Store, error) {
	if s.store == nil {
		return nil, firstErr(s.err, gorm.ErrRecordNotFound)
	}
	return s.store, s.err
}

func (s *stubStoreRepo) Update(_ context.Context, store *models.Store) error {
	s.updated = store
	return s.err
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

type stubTokens struct{ token string }

func (s stubTokens) NewOwnerToken() string { return s.token }

func baseStore() *models.Store {
	return &models.Store{
		ID:         uuid.New(),
		OwnerID:    100,
		OwnerToken: "tok-base",
		Name:       "Sunrise Goods",
		Currency:   "NGN",
	}
}

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(nil, stubTokens{})
	if err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestNewServiceRequiresTokens(t *testing.T) {
	_, err := NewService(&stubStoreRepo{}, nil)
	if err == nil {
		t.Fatal("expected error creating service without token generator")
	}
}

func TestServiceCreateSuccess(t *testing.T) {
	repo := &stubStoreRepo{}
	svc, err := NewService(repo, stubTokens{token: "tok-123"})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	store, err := svc.Create(context.Background(), 55, "  Sunrise Goods ", "ngn")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if store.Name != "Sunrise Goods" {
		t.Fatalf("expected trimmed name, got %q", store.Name)
	}
	if store.Currency != "NGN" {
		t.Fatalf("expected uppercased currency, got %q", store.Currency)
	}
	if store.OwnerToken != "tok-123" {
		t.Fatalf("expected generated owner token, got %q", store.OwnerToken)
	}
	if store.ID == uuid.Nil {
		t.Fatal("expected assigned id")
	}
}

func TestServiceCreateAcceptsCurrencySymbols(t *testing.T) {
	svc, err := NewService(&stubStoreRepo{}, stubTokens{token: "tok"})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	for _, currency := range []string{"$", "₦", "NGN"} {
		store, gotErr := svc.Create(context.Background(), 1, "Sunrise", currency)
		if gotErr != nil {
			t.Fatalf("create with currency %q: %v", currency, gotErr)
		}
		if store.Currency == "" {
			t.Fatalf("expected currency stored for %q", currency)
		}
	}
}

func TestServiceCreateRejectsSecondStore(t *testing.T) {
	repo := &stubStoreRepo{store: baseStore()}
	svc, err := NewService(repo, stubTokens{token: "tok"})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Create(context.Background(), 55, "Another", "NGN")
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", gotErr)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc, err := NewService(&stubStoreRepo{}, stubTokens{token: "tok"})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	cases := []struct {
		name     string
		store    string
		currency string
	}{
		{name: "empty name", store: "   ", currency: "NGN"},
		{name: "spelled-out currency", store: "Sunrise", currency: "NAIRA"},
		{name: "blank currency", store: "Sunrise", currency: "   "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, gotErr := svc.Create(context.Background(), 1, tc.store, tc.currency)
			if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", gotErr)
			}
		})
	}
}

func TestServiceGetByOwnerNotFound(t *testing.T) {
	svc, err := NewService(&stubStoreRepo{}, stubTokens{token: "tok"})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.GetByOwner(context.Background(), 999)
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", gotErr)
	}
}

func TestServiceGetByIDDependencyError(t *testing.T) {
	repo := &stubStoreRepo{store: baseStore(), err: errors.New("boom")}
	svc, err := NewService(repo, stubTokens{token: "tok"})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.GetByID(context.Background(), uuid.New())
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", gotErr)
	}
}

func TestServiceLinkChannelStripsUsernamePrefix(t *testing.T) {
	repo := &stubStoreRepo{store: baseStore()}
	svc, err := NewService(repo, stubTokens{token: "tok"})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	store, err := svc.LinkChannel(context.Background(), 100, -100123, "@sunrise_deals")
	if err != nil {
		t.Fatalf("link channel: %v", err)
	}
	if store.ChannelID == nil || *store.ChannelID != -100123 {
		t.Fatalf("expected channel id set, got %v", store.ChannelID)
	}
	if store.ChannelUsername == nil || *store.ChannelUsername != "sunrise_deals" {
		t.Fatalf("expected username without @, got %v", store.ChannelUsername)
	}
	if repo.updated == nil {
		t.Fatal("expected store to be saved")
	}
}

func TestServiceUpdateSettingsClearsBlankFields(t *testing.T) {
	store := baseStore()
	note := "old note"
	store.DeliveryNote = &note
	repo := &stubStoreRepo{store: store}
	svc, err := NewService(repo, stubTokens{token: "tok"})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	blank := "  "
	bank := "First Bank"
	updated, err := svc.UpdateSettings(context.Background(), store.ID, UpdateSettingsInput{
		DeliveryNote: &blank,
		BankName:     &bank,
	})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if updated.DeliveryNote != nil {
		t.Fatalf("expected blank delivery note cleared, got %v", *updated.DeliveryNote)
	}
	if updated.BankName == nil || *updated.BankName != "First Bank" {
		t.Fatalf("expected bank name set, got %v", updated.BankName)
	}
}

func TestServiceUpdateSettingsRejectsBadCurrency(t *testing.T) {
	repo := &stubStoreRepo{store: baseStore()}
	svc, err := NewService(repo, stubTokens{token: "tok"})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	bad := "NAIRA"
	_, gotErr := svc.UpdateSettings(context.Background(), uuid.New(), UpdateSettingsInput{Currency: &bad})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", gotErr)
	}
}

func TestServiceGetByTokenBlankReadsUnauthorized(t *testing.T) {
	repo := &stubStoreRepo{store: baseStore()}
	svc, err := NewService(repo, stubTokens{token: "tok"})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.GetByToken(context.Background(), "   ")
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", gotErr)
	}
}

func TestServiceGetByTokenMissReadsUnauthorized(t *testing.T) {
	repo := &stubStoreRepo{}
	svc, err := NewService(repo, stubTokens{token: "tok"})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.GetByToken(context.Background(), "tok-unknown")
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", gotErr)
	}
}

func TestServiceGetByTokenTrimsAndResolves(t *testing.T) {
	repo := &stubStoreRepo{store: baseStore()}
	svc, err := NewService(repo, stubTokens{token: "tok"})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	store, gotErr := svc.GetByToken(context.Background(), " tok-base ")
	if gotErr != nil {
		t.Fatalf("get by token: %v", gotErr)
	}
	if store.OwnerToken != "tok-base" {
		t.Fatalf("expected resolved store, got %+v", store)
	}
}
