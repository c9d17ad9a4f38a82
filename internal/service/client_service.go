package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Eursukkul/canchas-booking/internal/apperr"
	"github.com/Eursukkul/canchas-booking/internal/audit"
	"github.com/Eursukkul/canchas-booking/internal/models"
	"github.com/Eursukkul/canchas-booking/internal/repository"
	"github.com/Eursukkul/canchas-booking/internal/session"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type ClientService interface {
	Create(ctx context.Context, actor session.Actor, client *models.Client) error
	Get(ctx context.Context, id uint) (*models.Client, error)
	List(ctx context.Context, filter repository.ClientFilter) ([]models.Client, error)
	Update(ctx context.Context, actor session.Actor, client *models.Client) (*models.Client, error)
	Delete(ctx context.Context, actor session.Actor, id uint) error
}

type clientService struct {
	repo     repository.ClientRepository
	recorder audit.Recorder
}

func NewClientService(repo repository.ClientRepository, recorder audit.Recorder) ClientService {
	return &clientService{repo: repo, recorder: recorder}
}

// check normalizes the client and enforces format and uniqueness rules.
// excludeID is the client being updated, zero on create.
func (s *clientService) check(ctx context.Context, c *models.Client, excludeID uint) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Surname = strings.TrimSpace(c.Surname)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Document = strings.TrimSpace(c.Document)
	c.Phone = strings.TrimSpace(c.Phone)

	if c.Name == "" || c.Surname == "" {
		return fmt.Errorf("%w: name and surname are required", apperr.ErrInvalidInput)
	}
	if c.Document == "" {
		return fmt.Errorf("%w: document is required", apperr.ErrInvalidInput)
	}
	if err := validate.Var(c.Email, "required,email"); err != nil {
		return fmt.Errorf("%w: invalid email %q", apperr.ErrInvalidInput, c.Email)
	}
	if c.Phone != "" {
		if err := validate.Var(c.Phone, "len=10,numeric"); err != nil {
			return fmt.Errorf("%w: phone must be 10 digits", apperr.ErrInvalidInput)
		}
	}

	taken, err := s.repo.EmailTaken(ctx, c.Email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: email %s", apperr.ErrDuplicate, c.Email)
	}

	taken, err = s.repo.DocumentTaken(ctx, c.Document, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: document %s", apperr.ErrDuplicate, c.Document)
	}
	return nil
}

func (s *clientService) Create(ctx context.Context, actor session.Actor, client *models.Client) error {
	client.ID = 0
	if err := s.check(ctx, client, 0); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	record(ctx, s.recorder, actor, models.EntityClients, models.ActionInsert,
		fmt.Sprintf("client %s created", client.FullName()), nil, client)
	return nil
}

func (s *clientService) Get(ctx context.Context, id uint) (*models.Client, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *clientService) List(ctx context.Context, filter repository.ClientFilter) ([]models.Client, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *clientService) Update(ctx context.Context, actor session.Actor, client *models.Client) (*models.Client, error) {
	current, err := s.repo.FindByID(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("client %d: %w", client.ID, err)
	}
	if err := s.check(ctx, client, client.ID); err != nil {
		return nil, err
	}

	client.CreatedAt = current.CreatedAt
	if err := s.repo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}

	updated, err := s.repo.FindByID(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	record(ctx, s.recorder, actor, models.EntityClients, models.ActionUpdate,
		fmt.Sprintf("client %s updated", updated.FullName()), current, updated)
	return updated, nil
}

func (s *clientService) Delete(ctx context.Context, actor session.Actor, id uint) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("client %d: %w", id, err)
	}

	inUse, err := s.repo.HasReservations(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("client %s: %w; deactivate instead", current.FullName(), apperr.ErrInUse)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}

	record(ctx, s.recorder, actor, models.EntityClients, models.ActionDelete,
		fmt.Sprintf("client %s deleted", current.FullName()), current, nil)
	return nil
}
