package transaction

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tomthedeveloper11/trucking/internal/audit"
	"github.com/tomthedeveloper11/trucking/internal/models"
)

type auditStore struct {
	s *Service
}

// AuditStore lets audit entries about transactions be undone.
func (s *Service) AuditStore() audit.EntityStore {
	return auditStore{s: s}
}

func (a auditStore) DeleteEntity(ctx context.Context, id string) error {
	oid, err := models.ParseObjectID(id)
	if err != nil {
		return err
	}
	if _, err := a.s.store.Delete(ctx, oid); err != nil {
		return err
	}
	a.s.InvalidateAutoComplete(ctx)
	return nil
}

func (a auditStore) RestoreEntity(ctx context.Context, id string, before []byte) error {
	oid, err := models.ParseObjectID(id)
	if err != nil {
		return err
	}
	tx, err := decodeSnapshot(before)
	if err != nil {
		return err
	}
	if _, err := a.s.store.Replace(ctx, oid, tx.TransactionType, tx); err != nil {
		return err
	}
	a.s.InvalidateAutoComplete(ctx)
	return nil
}

func (a auditStore) RecreateEntity(ctx context.Context, snapshot []byte) error {
	tx, err := decodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	if tx.ID.IsZero() {
		return fmt.Errorf("%w: snapshot has no id", models.ErrInvalidInput)
	}
	if _, err := a.s.store.Insert(ctx, tx); err != nil {
		return err
	}
	a.s.InvalidateAutoComplete(ctx)
	return nil
}

func decodeSnapshot(b []byte) (models.Transaction, error) {
	var tx models.Transaction
	if err := json.Unmarshal(b, &tx); err != nil {
		return models.Transaction{}, fmt.Errorf("decode transaction snapshot: %w", err)
	}
	if !tx.TransactionType.Valid() {
		return models.Transaction{}, fmt.Errorf("%w: snapshot has no transaction type", models.ErrInvalidInput)
	}
	return tx, nil
}
