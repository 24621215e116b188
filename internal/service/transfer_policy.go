package service

import "go-inventory-ledger/internal/model"

// TransitionPolicy decides which transfer status changes are legal.
// Same-status requests never reach the policy; they are no-ops.
type TransitionPolicy interface {
	Allowed(from, to model.TransferStatus) bool
}

// PermissivePolicy allows any change between known statuses, including
// skipping intermediate states and leaving Completed.
type PermissivePolicy struct{}

func (PermissivePolicy) Allowed(from, to model.TransferStatus) bool {
	return from.Valid() && to.Valid()
}

// TransitionTable lists the successors allowed from each status.
type TransitionTable map[model.TransferStatus][]model.TransferStatus

func (t TransitionTable) Allowed(from, to model.TransferStatus) bool {
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CuratedTransitions is the subset of moves offered to operators.
// Cancelled has no successors.
var CuratedTransitions = TransitionTable{
	model.TransferCreated:   {model.TransferInTransit, model.TransferDelivered, model.TransferCompleted, model.TransferCancelled},
	model.TransferInTransit: {model.TransferDelivered, model.TransferCompleted, model.TransferCancelled},
	model.TransferDelivered: {model.TransferCompleted, model.TransferCancelled},
	model.TransferCompleted: {model.TransferDelivered, model.TransferCancelled},
}

// PolicyByName resolves the TRANSFER_POLICY setting.
func PolicyByName(name string) TransitionPolicy {
	if name == "curated" {
		return CuratedTransitions
	}
	return PermissivePolicy{}
}
