package services

import (
	"sort"
	"sync"

	"fleetadmin/internal/domain"
	"fleetadmin/internal/domain/models"
	"fleetadmin/internal/utils"
)

// BulkService holds the payment screen's trip selection and applies one
// payment transition to the whole selection at once. The write is
// all-or-nothing: if any selected trip is in the wrong state nothing is
// written and the selection survives.
type BulkService struct {
	Trips TripService

	mu       sync.Mutex
	selected map[string]float64 // reference -> amount at selection time
}

// BulkResult reports what one bulk transition did.
type BulkResult struct {
	References  []string `json:"references"`
	TripCount   int64    `json:"trip_count"`
	TotalAmount float64  `json:"total_amount"`
}

// Select adds a trip to the selection, remembering its amount for the
// running total shown on the bar.
func (s *BulkService) Select(reference string, amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		s.selected = map[string]float64{}
	}
	s.selected[reference] = amount
}

func (s *BulkService) Deselect(reference string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selected, reference)
}

func (s *BulkService) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = map[string]float64{}
}

// Selection returns the selected references in stable order plus the
// running amount total.
func (s *BulkService) Selection() ([]string, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	refs := make([]string, 0, len(s.selected))
	var total float64
	for ref, amount := range s.selected {
		refs = append(refs, ref)
		total += amount
	}
	sort.Strings(refs)
	return refs, total
}

// BulkMarkTransferPending moves every selected trip to transfer_pending.
func (s *BulkService) BulkMarkTransferPending(op domain.Operator) (BulkResult, error) {
	return s.apply(models.PaymentTransferPending, op)
}

// BulkMarkPaid finalizes every selected trip's payout.
func (s *BulkService) BulkMarkPaid(op domain.Operator) (BulkResult, error) {
	return s.apply(models.PaymentPaid, op)
}

func (s *BulkService) apply(to models.PaymentState, op domain.Operator) (BulkResult, error) {
	refs, total := s.Selection()
	if len(refs) == 0 {
		return BulkResult{}, domain.ValidationError{Field: "selection", Msg: "no trips selected"}
	}

	// Validate every trip's current state before touching any of them.
	for _, ref := range refs {
		trip, err := s.Trips.GetTrip(ref)
		if err != nil {
			return BulkResult{}, err
		}
		if trip.ApprovalState != models.ApprovalApproved {
			return BulkResult{}, domain.InvalidTransitionError{
				Reference: ref,
				From:      string(trip.ApprovalState),
				To:        string(to),
				Msg:       "only approved trips enter the payment flow",
			}
		}
		if trip.PaymentState != to && !models.CanTransitionPayment(trip.PaymentState, to) {
			return BulkResult{}, domain.InvalidTransitionError{
				Reference: ref,
				From:      string(trip.PaymentState),
				To:        string(to),
			}
		}
	}

	now := utils.NowUTC()
	patch := map[string]any{
		"payment_status": string(to),
		"updated_at":     now,
	}
	if to == models.PaymentPaid {
		patch["paid_at"] = now
	}

	count, err := s.Trips.Stops.UpdateByReferenceSet(refs, patch)
	if err != nil {
		return BulkResult{}, err
	}

	// The selection is cleared only once the write committed.
	s.ClearSelection()
	return BulkResult{References: refs, TripCount: count, TotalAmount: total}, nil
}
