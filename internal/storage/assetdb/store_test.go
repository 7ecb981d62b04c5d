package assetdb

import (
	"testing"

	"github.com/minjaekwon/assetboard/internal/common"
	"github.com/minjaekwon/assetboard/internal/models"
)

func newUnitTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	logger := common.NewSilentLogger()
	store, err := NewStore(logger, dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestHistoryEntryCRUD(t *testing.T) {
	store := newUnitTestStore(t)

	entry := &models.HistoryEntry{
		Date:          "2024-01-02",
		TotalValue:    1500000,
		SnapshotValue: 1500000,
		ExchangeRate:  1320,
		Holdings: []models.Position{
			{Symbol: "005930.KS", Shares: 10, AvgPrice: 70000, CurrentPrice: 72000, Currency: "KRW"},
		},
	}
	if err := store.UpsertEntry(entry); err != nil {
		t.Fatalf("UpsertEntry: %v", err)
	}

	got, err := store.GetEntry("2024-01-02")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if got.TotalValue != 1500000 {
		t.Errorf("unexpected total value: %f", got.TotalValue)
	}
	if len(got.Holdings) != 1 || got.Holdings[0].Symbol != "005930.KS" {
		t.Errorf("unexpected holdings: %+v", got.Holdings)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps should be set on upsert")
	}

	// Upsert same date replaces but keeps CreatedAt
	created := got.CreatedAt
	entry.TotalValue = 1600000
	if err := store.UpsertEntry(entry); err != nil {
		t.Fatalf("UpsertEntry update: %v", err)
	}
	got, _ = store.GetEntry("2024-01-02")
	if got.TotalValue != 1600000 {
		t.Errorf("expected updated value, got %f", got.TotalValue)
	}
	if !got.CreatedAt.Equal(created) {
		t.Error("CreatedAt should survive upsert")
	}

	if err := store.DeleteEntry("2024-01-02"); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if _, err := store.GetEntry("2024-01-02"); err == nil {
		t.Error("GetEntry after delete should fail")
	}
}

func TestHistoryRejectsMalformedDate(t *testing.T) {
	store := newUnitTestStore(t)

	err := store.UpsertEntry(&models.HistoryEntry{Date: "02/01/2024", TotalValue: 1})
	if err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestListEntriesSorted(t *testing.T) {
	store := newUnitTestStore(t)

	for _, date := range []string{"2024-01-05", "2024-01-01", "2024-01-03"} {
		if err := store.UpsertEntry(&models.HistoryEntry{Date: date, TotalValue: 1}); err != nil {
			t.Fatalf("UpsertEntry %s: %v", date, err)
		}
	}

	entries, err := store.ListEntries()
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []string{"2024-01-01", "2024-01-03", "2024-01-05"}
	for i, date := range want {
		if entries[i].Date != date {
			t.Errorf("entry %d: expected %s, got %s", i, date, entries[i].Date)
		}
	}
}

func TestListRange(t *testing.T) {
	store := newUnitTestStore(t)

	for _, date := range []string{"2024-01-01", "2024-01-15", "2024-02-01", "2024-02-15"} {
		store.UpsertEntry(&models.HistoryEntry{Date: date, TotalValue: 1})
	}

	entries, err := store.ListRange("2024-01-10", "2024-02-05")
	if err != nil {
		t.Fatalf("ListRange: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Date != "2024-01-15" || entries[1].Date != "2024-02-01" {
		t.Errorf("unexpected range: %s, %s", entries[0].Date, entries[1].Date)
	}

	// Open-ended bounds
	entries, _ = store.ListRange("2024-02-01", "")
	if len(entries) != 2 {
		t.Errorf("expected 2 entries from open upper bound, got %d", len(entries))
	}
	entries, _ = store.ListRange("", "2024-01-31")
	if len(entries) != 2 {
		t.Errorf("expected 2 entries from open lower bound, got %d", len(entries))
	}
}

func TestInvestmentCRUD(t *testing.T) {
	store := newUnitTestStore(t)

	inv := &models.Investment{
		ID: "inv-1",
		Position: models.Position{
			Symbol:   "AAPL",
			Name:     "Apple",
			Shares:   5,
			AvgPrice: 180,
			Currency: "USD",
			Category: models.CategoryOverseasStock,
		},
	}
	if err := store.SaveInvestment(inv); err != nil {
		t.Fatalf("SaveInvestment: %v", err)
	}

	got, err := store.GetInvestment("inv-1")
	if err != nil {
		t.Fatalf("GetInvestment: %v", err)
	}
	if got.Position.Symbol != "AAPL" || got.Position.Shares != 5 {
		t.Errorf("unexpected investment: %+v", got.Position)
	}

	created := got.CreatedAt
	inv.Position.Shares = 8
	if err := store.SaveInvestment(inv); err != nil {
		t.Fatalf("SaveInvestment update: %v", err)
	}
	got, _ = store.GetInvestment("inv-1")
	if got.Position.Shares != 8 {
		t.Errorf("expected 8 shares, got %f", got.Position.Shares)
	}
	if !got.CreatedAt.Equal(created) {
		t.Error("CreatedAt should survive update")
	}

	if err := store.DeleteInvestment("inv-1"); err != nil {
		t.Fatalf("DeleteInvestment: %v", err)
	}
	if _, err := store.GetInvestment("inv-1"); err == nil {
		t.Error("GetInvestment after delete should fail")
	}
}

func TestSaveInvestmentRequiresID(t *testing.T) {
	store := newUnitTestStore(t)

	err := store.SaveInvestment(&models.Investment{Position: models.Position{Symbol: "AAPL"}})
	if err == nil {
		t.Error("expected error for missing id")
	}
}

func TestListInvestmentsSortedBySymbol(t *testing.T) {
	store := newUnitTestStore(t)

	store.SaveInvestment(&models.Investment{ID: "a", Position: models.Position{Symbol: "TSLA"}})
	store.SaveInvestment(&models.Investment{ID: "b", Position: models.Position{Symbol: "AAPL"}})
	store.SaveInvestment(&models.Investment{ID: "c", Position: models.Position{Symbol: "MSFT"}})

	invs, err := store.ListInvestments()
	if err != nil {
		t.Fatalf("ListInvestments: %v", err)
	}
	if len(invs) != 3 {
		t.Fatalf("expected 3 investments, got %d", len(invs))
	}
	want := []string{"AAPL", "MSFT", "TSLA"}
	for i, sym := range want {
		if invs[i].Position.Symbol != sym {
			t.Errorf("investment %d: expected %s, got %s", i, sym, invs[i].Position.Symbol)
		}
	}
}

func TestAllocationCRUD(t *testing.T) {
	store := newUnitTestStore(t)

	alloc := &models.Allocation{
		Category:     models.CategorySavings,
		Value:        3000000,
		Currency:     "KRW",
		TargetWeight: 30,
	}
	if err := store.SaveAllocation(alloc); err != nil {
		t.Fatalf("SaveAllocation: %v", err)
	}

	got, err := store.GetAllocation(models.CategorySavings)
	if err != nil {
		t.Fatalf("GetAllocation: %v", err)
	}
	if got.Value != 3000000 || got.TargetWeight != 30 {
		t.Errorf("unexpected allocation: %+v", got)
	}

	if err := store.DeleteAllocation(models.CategorySavings); err != nil {
		t.Fatalf("DeleteAllocation: %v", err)
	}
	if _, err := store.GetAllocation(models.CategorySavings); err == nil {
		t.Error("GetAllocation after delete should fail")
	}
}

func TestSaveAllocationRequiresCategory(t *testing.T) {
	store := newUnitTestStore(t)

	if err := store.SaveAllocation(&models.Allocation{Value: 100}); err == nil {
		t.Error("expected error for missing category")
	}
}

func TestListAllocationsCategoryOrder(t *testing.T) {
	store := newUnitTestStore(t)

	store.SaveAllocation(&models.Allocation{Category: models.CategoryOverseasStock, Value: 1})
	store.SaveAllocation(&models.Allocation{Category: models.CategoryCash, Value: 2})
	store.SaveAllocation(&models.Allocation{Category: models.CategoryDomesticBond, Value: 3})

	allocs, err := store.ListAllocations()
	if err != nil {
		t.Fatalf("ListAllocations: %v", err)
	}
	want := []models.Category{
		models.CategoryCash,
		models.CategoryDomesticBond,
		models.CategoryOverseasStock,
	}
	if len(allocs) != len(want) {
		t.Fatalf("expected %d allocations, got %d", len(want), len(allocs))
	}
	for i, cat := range want {
		if allocs[i].Category != cat {
			t.Errorf("allocation %d: expected %s, got %s", i, cat, allocs[i].Category)
		}
	}
}

func TestRecordKindsDoNotCollide(t *testing.T) {
	store := newUnitTestStore(t)

	store.UpsertEntry(&models.HistoryEntry{Date: "2024-01-01", TotalValue: 1})
	store.SaveInvestment(&models.Investment{ID: "2024-01-01", Position: models.Position{Symbol: "X"}})
	store.SaveAllocation(&models.Allocation{Category: models.CategoryCash, Value: 1})

	entries, _ := store.ListEntries()
	invs, _ := store.ListInvestments()
	allocs, _ := store.ListAllocations()
	if len(entries) != 1 || len(invs) != 1 || len(allocs) != 1 {
		t.Errorf("expected 1 of each, got %d/%d/%d", len(entries), len(invs), len(allocs))
	}
}

func TestDeleteNonexistent(t *testing.T) {
	store := newUnitTestStore(t)

	if err := store.DeleteEntry("2030-01-01"); err != nil {
		t.Errorf("DeleteEntry nonexistent should not error: %v", err)
	}
	if err := store.DeleteInvestment("nope"); err != nil {
		t.Errorf("DeleteInvestment nonexistent should not error: %v", err)
	}
	if err := store.DeleteAllocation(models.CategoryCash); err != nil {
		t.Errorf("DeleteAllocation nonexistent should not error: %v", err)
	}
}

func TestCloseNilDB(t *testing.T) {
	store := &Store{}
	if err := store.Close(); err != nil {
		t.Errorf("Close on nil db should not error: %v", err)
	}
}
