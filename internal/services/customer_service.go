package services

import (
	"context"
	"fmt"

	"stockbooks/internal/models"
	"stockbooks/internal/repositories"

	"github.com/google/uuid"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	GetCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*models.Customer, error)
	// ListCustomers applies the caller's customer scope: nil means
	// unrestricted, a non-nil set limits the result.
	ListCustomers(ctx context.Context, tenantID uuid.UUID, scope []uuid.UUID) ([]*models.Customer, error)
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, tenantID, customerID uuid.UUID) error
}

type customerService struct {
	customerRepo repositories.CustomerRepository
}

func NewCustomerService(customerRepo repositories.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	if customer.Name == "" {
		return fmt.Errorf("customer name is required")
	}
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	return s.customerRepo.Create(ctx, customer)
}

func (s *customerService) GetCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*models.Customer, error) {
	return s.customerRepo.GetByID(ctx, tenantID, customerID)
}

func (s *customerService) ListCustomers(ctx context.Context, tenantID uuid.UUID, scope []uuid.UUID) ([]*models.Customer, error) {
	return s.customerRepo.List(ctx, tenantID, scope)
}

func (s *customerService) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	existing, err := s.customerRepo.GetByID(ctx, customer.TenantID, customer.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("customer not found")
	}
	return s.customerRepo.Update(ctx, customer)
}

func (s *customerService) DeleteCustomer(ctx context.Context, tenantID, customerID uuid.UUID) error {
	return s.customerRepo.Delete(ctx, tenantID, customerID)
}
