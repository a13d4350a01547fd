package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SplitStage records how far a vendor group of a split has progressed.
type SplitStage string

const (
	SplitStageChildCreated SplitStage = "child_created"
	SplitStageCaptured     SplitStage = "captured"
	SplitStageCredited     SplitStage = "credited"
)

// Reached reports whether s is at or past other.
func (s SplitStage) Reached(other SplitStage) bool {
	return stageRank[s] >= stageRank[other]
}

var stageRank = map[SplitStage]int{
	SplitStageChildCreated: 1,
	SplitStageCaptured:     2,
	SplitStageCredited:     3,
}

// SplitProgress is the persisted marker for one (parent, vendor) group.
type SplitProgress struct {
	ParentOrderID  uuid.UUID  `json:"parent_order_id"`
	VendorID       uuid.UUID  `json:"vendor_id"`
	ChildOrderID   uuid.UUID  `json:"child_order_id"`
	Stage          SplitStage `json:"stage"`
	CapturedAmount int64      `json:"captured_amount"`
	TransactionID  string     `json:"transaction_id,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// SplitResult summarises a split run.
type SplitResult struct {
	ParentOrderID     uuid.UUID   `json:"parent_order_id"`
	Skipped           bool        `json:"skipped"`
	Message           string      `json:"message"`
	ChildOrderIDs     []uuid.UUID `json:"child_order_ids"`
	CompletedVendors  []uuid.UUID `json:"completed_vendors"`
	UnassignedItemIDs []uuid.UUID `json:"unassigned_item_ids,omitempty"`
}

// SplitFailure reports a split that stopped after some vendor groups completed.
type SplitFailure struct {
	ParentOrderID    uuid.UUID
	FailedVendor     uuid.UUID
	CompletedVendors []uuid.UUID
	Err              error
}

func (f *SplitFailure) Error() string {
	done := make([]string, len(f.CompletedVendors))
	for i, v := range f.CompletedVendors {
		done[i] = v.String()
	}
	return fmt.Sprintf("split of order %s failed at vendor %s (completed: [%s]): %v",
		f.ParentOrderID, f.FailedVendor, strings.Join(done, ", "), f.Err)
}

// SplitFailureDetails is the client-visible part of a SplitFailure.
type SplitFailureDetails struct {
	FailedVendor     uuid.UUID   `json:"failed_vendor"`
	CompletedVendors []uuid.UUID `json:"completed_vendors"`
}

func (f *SplitFailure) Unwrap() error {
	return f.Err
}
