package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/merchware/creditledger/internal/domain/errors"
	"github.com/merchware/creditledger/internal/domain/model"
	testhelpers "github.com/merchware/creditledger/internal/test"
)

func TestLedgerUseCaseRecordOrderValidation(t *testing.T) {
	store := testhelpers.NewLedgerRepositoryStub()
	uc := NewLedgerUseCase(store, model.DefaultTierTable())
	at := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	if _, err := uc.RecordOrder(context.Background(), "o-1", "", decimal.NewFromInt(10), at); err != domainErrors.ErrNoCustomer {
		t.Fatalf("expected no customer error, got %v", err)
	}
	if _, err := uc.RecordOrder(context.Background(), "", "c-1", decimal.NewFromInt(10), at); err != domainErrors.ErrInvalidOrderID {
		t.Fatalf("expected invalid order id error, got %v", err)
	}
	if _, err := uc.RecordOrder(context.Background(), "o-1", "c-1", decimal.NewFromInt(-10), at); err != domainErrors.ErrInvalidOrderAmount {
		t.Fatalf("expected invalid amount error, got %v", err)
	}
	if len(store.Applied) != 0 {
		t.Fatalf("no order should have been applied, got %d", len(store.Applied))
	}
}

func TestLedgerUseCaseRecordOrderAccrues(t *testing.T) {
	store := testhelpers.NewLedgerRepositoryStub()
	uc := NewLedgerUseCase(store, model.DefaultTierTable())
	at := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	applied, err := uc.RecordOrder(context.Background(), "o-1", "c-1", decimal.NewFromInt(12000), at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applied {
		t.Fatal("expected order to be newly applied")
	}

	entries := store.Entries["c-1"]
	if len(entries) != 1 {
		t.Fatalf("expected one ledger entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Month != model.MonthOf(at) {
		t.Fatalf("accrual landed in wrong month: %s", entry.Month)
	}
	if !entry.Revenue.Equal(decimal.NewFromInt(12000)) {
		t.Fatalf("unexpected revenue %s", entry.Revenue)
	}
	// 12000 cumulative sits in the 2% tier.
	if !entry.Earned.Equal(decimal.NewFromInt(240)) {
		t.Fatalf("unexpected earned %s", entry.Earned)
	}
}

func TestLedgerUseCaseRecordOrderReplay(t *testing.T) {
	store := testhelpers.NewLedgerRepositoryStub()
	uc := NewLedgerUseCase(store, model.DefaultTierTable())
	at := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	if _, err := uc.RecordOrder(context.Background(), "o-1", "c-1", decimal.NewFromInt(100), at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	applied, err := uc.RecordOrder(context.Background(), "o-1", "c-1", decimal.NewFromInt(100), at)
	if err != nil {
		t.Fatalf("replay must be a no-op success, got %v", err)
	}
	if applied {
		t.Fatal("replayed order must not report as applied")
	}
	if !store.Entries["c-1"][0].Revenue.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("replay mutated the ledger: %s", store.Entries["c-1"][0].Revenue)
	}
}

func TestLedgerUseCaseRedeemableBalanceExcludesCurrentMonth(t *testing.T) {
	store := testhelpers.NewLedgerRepositoryStub()
	store.Entries["c-1"] = []model.LedgerEntry{
		{CustomerID: "c-1", Month: model.MonthKey{Year: 2025, Month: time.February}, Earned: decimal.NewFromInt(50)},
		{CustomerID: "c-1", Month: model.MonthKey{Year: 2025, Month: time.March}, Earned: decimal.NewFromInt(70)},
	}
	uc := NewLedgerUseCase(store, model.DefaultTierTable())

	got, err := uc.RedeemableBalance(context.Background(), "c-1", time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected 50 matured, got %s", got)
	}
}

func TestLedgerUseCaseRecordRedemptionValidation(t *testing.T) {
	store := testhelpers.NewLedgerRepositoryStub()
	uc := NewLedgerUseCase(store, model.DefaultTierTable())
	now := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	if err := uc.RecordRedemption(context.Background(), "", decimal.NewFromInt(1), now, "n-1"); err != domainErrors.ErrNoCustomer {
		t.Fatalf("expected no customer error, got %v", err)
	}
	if err := uc.RecordRedemption(context.Background(), "c-1", decimal.Zero, now, "n-1"); err != domainErrors.ErrInvalidAmount {
		t.Fatalf("expected invalid amount error, got %v", err)
	}
	if len(store.Redemptions) != 0 {
		t.Fatal("no redemption should have been recorded")
	}
}

func TestLedgerUseCaseRecordRedemptionDeductsOldestFirst(t *testing.T) {
	store := testhelpers.NewLedgerRepositoryStub()
	store.Entries["c-1"] = []model.LedgerEntry{
		{CustomerID: "c-1", Month: model.MonthKey{Year: 2025, Month: time.January}, Earned: decimal.NewFromInt(30)},
		{CustomerID: "c-1", Month: model.MonthKey{Year: 2025, Month: time.February}, Earned: decimal.NewFromInt(40)},
	}
	uc := NewLedgerUseCase(store, model.DefaultTierTable())
	now := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	if err := uc.RecordRedemption(context.Background(), "c-1", decimal.NewFromInt(45), now, "n-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := store.Entries["c-1"]
	if !entries[0].Redeemed.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("january should be fully drained, redeemed %s", entries[0].Redeemed)
	}
	if !entries[1].Redeemed.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("february should cover the remainder, redeemed %s", entries[1].Redeemed)
	}
	if len(store.Redemptions) != 1 || store.Redemptions[0].OrderNumber != "n-1" {
		t.Fatalf("unexpected redemption calls: %+v", store.Redemptions)
	}
}

func TestLedgerUseCaseRecordRedemptionInsufficient(t *testing.T) {
	store := testhelpers.NewLedgerRepositoryStub()
	store.Entries["c-1"] = []model.LedgerEntry{
		{CustomerID: "c-1", Month: model.MonthKey{Year: 2025, Month: time.February}, Earned: decimal.NewFromInt(10)},
	}
	uc := NewLedgerUseCase(store, model.DefaultTierTable())
	now := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	if err := uc.RecordRedemption(context.Background(), "c-1", decimal.NewFromInt(11), now, "n-1"); err != domainErrors.ErrInsufficientBalance {
		t.Fatalf("expected insufficient balance error, got %v", err)
	}
	if len(store.Redemptions) != 0 {
		t.Fatal("failed redemption must not be recorded")
	}
}

func TestLedgerUseCaseSummary(t *testing.T) {
	store := testhelpers.NewLedgerRepositoryStub()
	store.Entries["c-1"] = []model.LedgerEntry{
		{CustomerID: "c-1", Month: model.MonthKey{Year: 2025, Month: time.January}, Earned: decimal.NewFromInt(30), Redeemed: decimal.NewFromInt(10)},
		{CustomerID: "c-1", Month: model.MonthKey{Year: 2025, Month: time.March}, Earned: decimal.NewFromInt(20)},
	}
	uc := NewLedgerUseCase(store, model.DefaultTierTable())

	summary, err := uc.Summary(context.Background(), "c-1", time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.Eligible.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected eligible %s", summary.Eligible)
	}
	if !summary.Pending.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected pending %s", summary.Pending)
	}
	if !summary.LifetimeEarned.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected lifetime earned %s", summary.LifetimeEarned)
	}
	if !summary.Redeemed.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected redeemed %s", summary.Redeemed)
	}
}

func TestLedgerUseCaseRequiresCustomer(t *testing.T) {
	uc := NewLedgerUseCase(testhelpers.NewLedgerRepositoryStub(), model.DefaultTierTable())

	if _, err := uc.Summary(context.Background(), "", time.Now()); err != domainErrors.ErrNoCustomer {
		t.Fatalf("expected no customer error, got %v", err)
	}
	if _, err := uc.Entries(context.Background(), ""); err != domainErrors.ErrNoCustomer {
		t.Fatalf("expected no customer error, got %v", err)
	}
	if _, err := uc.RedeemableBalance(context.Background(), "", time.Now()); err != domainErrors.ErrNoCustomer {
		t.Fatalf("expected no customer error, got %v", err)
	}
}
