package summary

import (
	"bytes"
	"context"

	"github.com/tomthedeveloper11/trucking/internal/models"
)

// Source is implemented by transaction.Repository.
type Source interface {
	AllTransactions(ctx context.Context, rng models.DateRange) ([]models.Transaction, error)
	TransactionsByType(ctx context.Context, rng models.DateRange, types ...models.TransactionType) ([]models.Transaction, error)
}

// TruckLister is implemented by truck.Repository.
type TruckLister interface {
	List(ctx context.Context) ([]models.Truck, error)
}

type Service struct {
	txs    Source
	trucks TruckLister
}

func NewService(txs Source, trucks TruckLister) *Service {
	return &Service{txs: txs, trucks: trucks}
}

// Trucks returns the grouped truck summary for rng as seen by role.
func (s *Service) Trucks(ctx context.Context, rng models.DateRange, role models.UserRole) ([]TruckSummary, error) {
	trucks, err := s.trucks.List(ctx)
	if err != nil {
		return nil, err
	}
	txs, err := s.txs.TransactionsByType(ctx, rng, models.TransactionTypeTruck, models.TransactionTypeTruckAdditional)
	if err != nil {
		return nil, err
	}

	groups := GroupByTruck(trucks, txs)
	MaskTrucks(role, groups)
	return groups, nil
}

func (s *Service) Customers(ctx context.Context, rng models.DateRange, role models.UserRole) ([]CustomerSummary, error) {
	txs, err := s.txs.TransactionsByType(ctx, rng, models.TransactionTypeTruck)
	if err != nil {
		return nil, err
	}

	groups := GroupByCustomer(txs)
	MaskCustomers(role, groups)
	return groups, nil
}

func (s *Service) Overview(ctx context.Context, rng models.DateRange, role models.UserRole) (Overview, error) {
	txs, err := s.txs.AllTransactions(ctx, rng)
	if err != nil {
		return Overview{}, err
	}

	o := Summarize(rng, txs)
	MaskOverview(role, &o)
	return o, nil
}

func (s *Service) ExportTrucks(ctx context.Context, rng models.DateRange, role models.UserRole) (*bytes.Buffer, error) {
	groups, err := s.Trucks(ctx, rng, role)
	if err != nil {
		return nil, err
	}
	return WriteWorkbook(groups, role.CanSeeMargins())
}
