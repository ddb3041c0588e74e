package engine

// Thin facade over the governance pipeline. Governance operates orthogonally
// to transfers: none of these take the engine mutex themselves, the executor
// callbacks do.

import (
	"github.com/veyra-labs/veyra/types"
)

func (e *Engine) CreateOperation(caller types.Address, kind types.OperationKind, payload []byte) (*types.Operation, error) {
	return e.gov.Create(caller, kind, payload)
}

func (e *Engine) SignOperation(caller types.Address, id string) error {
	return e.gov.Sign(caller, id)
}

func (e *Engine) ExecuteOperation(caller types.Address, id string) error {
	return e.gov.Execute(caller, id)
}

func (e *Engine) CancelOperation(caller types.Address, id string) error {
	return e.gov.Cancel(caller, id)
}

func (e *Engine) GetOperationInfo(id string) (*types.Operation, error) {
	return e.gov.Get(id)
}
