package portal

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/petgasmx/petgas-portal/internal/errs"
	"github.com/petgasmx/petgas-portal/internal/models"
)

func TestGetOrCreateProfileIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, errFirst := svc.GetOrCreateProfile(ctx, "Client@Example.com")
	if errFirst != nil {
		t.Fatalf("first login: %v", errFirst)
	}
	second, errSecond := svc.GetOrCreateProfile(ctx, "client@example.com")
	if errSecond != nil {
		t.Fatalf("second login: %v", errSecond)
	}

	if first.ID != second.ID {
		t.Fatalf("expected one profile, got %s and %s", first.ID, second.ID)
	}
	if first.Email != "client@example.com" {
		t.Fatalf("expected normalized email, got %s", first.Email)
	}
}

func TestGetOrCreateProfileConcurrentFirstLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	const logins = 8
	var wg sync.WaitGroup
	errCh := make(chan error, logins)
	for i := 0; i < logins; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, errLogin := svc.GetOrCreateProfile(ctx, "race@example.com"); errLogin != nil {
				errCh <- errLogin
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for errLogin := range errCh {
		t.Fatalf("concurrent login: %v", errLogin)
	}

	var count int64
	if errCount := svc.db.Model(&models.Client{}).
		Where("email = ?", "race@example.com").
		Count(&count).Error; errCount != nil {
		t.Fatalf("count: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 client row, got %d", count)
	}
}

func TestUpdateProfileMutatesOnlySelfServiceFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	client := mustClient(t, svc, "client@example.com")

	name := "Ana"
	wallet := "0xabc123"
	updated, errUpdate := svc.UpdateProfile(ctx, client.ID, ProfileUpdate{
		DisplayName:   &name,
		WalletAddress: &wallet,
	})
	if errUpdate != nil {
		t.Fatalf("update: %v", errUpdate)
	}

	if updated.DisplayName != "Ana" {
		t.Fatalf("display name: got %s", updated.DisplayName)
	}
	if updated.WalletAddress == nil || *updated.WalletAddress != "0xabc123" {
		t.Fatalf("wallet: got %v", updated.WalletAddress)
	}
	if updated.Email != client.Email || updated.ID != client.ID {
		t.Fatal("email and id must stay immutable")
	}
	if updated.SecondaryWalletAddress != nil {
		t.Fatalf("untouched field changed: %v", *updated.SecondaryWalletAddress)
	}
}

func TestUpdateProfileUnknownClient(t *testing.T) {
	svc, _ := newTestService(t)
	name := "Ana"
	if _, errUpdate := svc.UpdateProfile(context.Background(), "missing", ProfileUpdate{DisplayName: &name}); !errors.Is(errUpdate, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", errUpdate)
	}
}
