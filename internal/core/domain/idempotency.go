package domain

import "github.com/google/uuid"

// creditNamespace scopes the deterministic ids derived below.
var creditNamespace = uuid.MustParse("6f1c3a52-8d0e-4b7a-9a7e-2f4c51d0b8e3")

// ChildOrderID derives the id of the child order carrying vendorID's share of
// parentID. Re-running a split therefore addresses the same child.
func ChildOrderID(parentID, vendorID uuid.UUID) uuid.UUID {
	return uuid.NewSHA1(creditNamespace, []byte("child:"+parentID.String()+":"+vendorID.String()))
}

// CreditTransactionID derives the ledger transaction id used to pay a vendor
// for a child order, so that a resumed split cannot credit twice.
func CreditTransactionID(childOrderID uuid.UUID) string {
	return uuid.NewSHA1(creditNamespace, []byte("credit:"+childOrderID.String())).String()
}

// WebhookTransactionID derives the ledger transaction id for a payment event.
func WebhookTransactionID(webhookID string) string {
	return uuid.NewSHA1(creditNamespace, []byte("webhook:"+webhookID)).String()
}

// SplitLockKey is the lock name guarding concurrent splits of one parent order.
func SplitLockKey(parentOrderID uuid.UUID) string {
	return "split:" + parentOrderID.String()
}
