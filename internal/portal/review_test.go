package portal

import (
	"context"
	"errors"
	"testing"

	"github.com/petgasmx/petgas-portal/internal/errs"
	"github.com/petgasmx/petgas-portal/internal/models"
)

func TestTransitionMitigationApproveKeepsAmount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	client := mustClient(t, svc, "client@example.com")

	entry, errSubmit := svc.SubmitMitigation(ctx, client.ID, 12.5, twoImages())
	if errSubmit != nil {
		t.Fatalf("submit: %v", errSubmit)
	}

	approved, errTransition := svc.TransitionMitigation(ctx, 1, entry.ID, models.StatusApproved)
	if errTransition != nil {
		t.Fatalf("approve: %v", errTransition)
	}
	if approved.Status != models.StatusApproved {
		t.Fatalf("status: got %s", approved.Status)
	}
	if approved.AmountKg != 12.5 {
		t.Fatalf("amount changed on approval: %v", approved.AmountKg)
	}
}

func TestTransitionMitigationRejectsIllegalMoves(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	client := mustClient(t, svc, "client@example.com")

	entry, errSubmit := svc.SubmitMitigation(ctx, client.ID, 3, nil)
	if errSubmit != nil {
		t.Fatalf("submit: %v", errSubmit)
	}
	if _, errApprove := svc.TransitionMitigation(ctx, 1, entry.ID, models.StatusApproved); errApprove != nil {
		t.Fatalf("approve: %v", errApprove)
	}

	// approved -> rejected requires reopening first
	if _, errFlip := svc.TransitionMitigation(ctx, 1, entry.ID, models.StatusRejected); !errors.Is(errFlip, errs.ErrConflict) {
		t.Fatalf("expected conflict, got %v", errFlip)
	}
	// same-status transition is a conflict too
	if _, errSame := svc.TransitionMitigation(ctx, 1, entry.ID, models.StatusApproved); !errors.Is(errSame, errs.ErrConflict) {
		t.Fatalf("expected conflict, got %v", errSame)
	}
	// unknown status is a validation error
	if _, errUnknown := svc.TransitionMitigation(ctx, 1, entry.ID, "archived"); !errors.Is(errUnknown, errs.ErrValidation) {
		t.Fatalf("expected validation error, got %v", errUnknown)
	}

	// reopen, then reject
	if _, errReopen := svc.TransitionMitigation(ctx, 1, entry.ID, models.StatusPending); errReopen != nil {
		t.Fatalf("reopen: %v", errReopen)
	}
	if _, errReject := svc.TransitionMitigation(ctx, 1, entry.ID, models.StatusRejected); errReject != nil {
		t.Fatalf("reject: %v", errReject)
	}
}

func TestTransitionMitigationAppendsReviewEvents(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	client := mustClient(t, svc, "client@example.com")

	entry, errSubmit := svc.SubmitMitigation(ctx, client.ID, 3, nil)
	if errSubmit != nil {
		t.Fatalf("submit: %v", errSubmit)
	}
	if _, errApprove := svc.TransitionMitigation(ctx, 42, entry.ID, models.StatusApproved); errApprove != nil {
		t.Fatalf("approve: %v", errApprove)
	}
	if _, errReopen := svc.TransitionMitigation(ctx, 42, entry.ID, models.StatusPending); errReopen != nil {
		t.Fatalf("reopen: %v", errReopen)
	}

	events, errList := svc.ListReviewEvents(ctx, entry.ID)
	if errList != nil {
		t.Fatalf("list events: %v", errList)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].FromStatus != models.StatusPending || events[0].ToStatus != models.StatusApproved {
		t.Fatalf("first event: %+v", events[0])
	}
	if events[1].FromStatus != models.StatusApproved || events[1].ToStatus != models.StatusPending {
		t.Fatalf("second event: %+v", events[1])
	}
	if events[0].AdminID != 42 {
		t.Fatalf("admin id: got %d", events[0].AdminID)
	}
}

func TestUpdateMitigationAmount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	client := mustClient(t, svc, "client@example.com")

	entry, errSubmit := svc.SubmitMitigation(ctx, client.ID, 3, nil)
	if errSubmit != nil {
		t.Fatalf("submit: %v", errSubmit)
	}
	if _, errApprove := svc.TransitionMitigation(ctx, 1, entry.ID, models.StatusApproved); errApprove != nil {
		t.Fatalf("approve: %v", errApprove)
	}

	// amount stays mutable at any status
	updated, errUpdate := svc.UpdateMitigationAmount(ctx, entry.ID, 4.25)
	if errUpdate != nil {
		t.Fatalf("update: %v", errUpdate)
	}
	if updated.AmountKg != 4.25 {
		t.Fatalf("amount: got %v", updated.AmountKg)
	}

	if _, errBad := svc.UpdateMitigationAmount(ctx, entry.ID, 0); !errors.Is(errBad, errs.ErrValidation) {
		t.Fatalf("expected validation error, got %v", errBad)
	}
	if _, errMissing := svc.UpdateMitigationAmount(ctx, 9999, 1); !errors.Is(errMissing, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", errMissing)
	}
}

func TestDeleteEvidenceRemovesRowAndObject(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	client := mustClient(t, svc, "client@example.com")

	entry, errSubmit := svc.SubmitMitigation(ctx, client.ID, 3, twoImages())
	if errSubmit != nil {
		t.Fatalf("submit: %v", errSubmit)
	}
	image := entry.Images[0]

	if errDelete := svc.DeleteEvidence(ctx, image.ID); errDelete != nil {
		t.Fatalf("delete: %v", errDelete)
	}

	if store.Has(image.StorageKey) {
		t.Fatalf("object %s should be gone", image.StorageKey)
	}
	var remaining int64
	if errCount := svc.db.Model(&models.EvidenceImage{}).
		Where("entry_id = ?", entry.ID).
		Count(&remaining).Error; errCount != nil {
		t.Fatalf("count: %v", errCount)
	}
	if remaining != 1 {
		t.Fatalf("expected 1 remaining evidence row, got %d", remaining)
	}

	if errMissing := svc.DeleteEvidence(ctx, image.ID); !errors.Is(errMissing, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", errMissing)
	}
}
