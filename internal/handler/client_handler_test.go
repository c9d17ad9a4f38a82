package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/Eursukkul/canchas-booking/internal/apperr"
	"github.com/Eursukkul/canchas-booking/internal/dto"
	"github.com/Eursukkul/canchas-booking/internal/models"
	"github.com/Eursukkul/canchas-booking/internal/repository"
	"github.com/Eursukkul/canchas-booking/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock ClientService ---

type mockClientService struct {
	createFn func(ctx context.Context, actor session.Actor, client *models.Client) error
	getFn    func(ctx context.Context, id uint) (*models.Client, error)
	listFn   func(ctx context.Context, filter repository.ClientFilter) ([]models.Client, error)
	updateFn func(ctx context.Context, actor session.Actor, client *models.Client) (*models.Client, error)
	deleteFn func(ctx context.Context, actor session.Actor, id uint) error
}

func (m *mockClientService) Create(ctx context.Context, actor session.Actor, client *models.Client) error {
	return m.createFn(ctx, actor, client)
}
func (m *mockClientService) Get(ctx context.Context, id uint) (*models.Client, error) {
	return m.getFn(ctx, id)
}
func (m *mockClientService) List(ctx context.Context, filter repository.ClientFilter) ([]models.Client, error) {
	return m.listFn(ctx, filter)
}
func (m *mockClientService) Update(ctx context.Context, actor session.Actor, client *models.Client) (*models.Client, error) {
	return m.updateFn(ctx, actor, client)
}
func (m *mockClientService) Delete(ctx context.Context, actor session.Actor, id uint) error {
	return m.deleteFn(ctx, actor, id)
}

const anaBody = `{"name":"Ana","surname":"Torres","email":"ana@example.com","document":"0102030405","phone":"0991234567","birth_date":"1990-05-20"}`

// --- Tests ---

func TestCreateClient_Handler_Success(t *testing.T) {
	svc := &mockClientService{
		createFn: func(ctx context.Context, actor session.Actor, client *models.Client) error {
			client.ID = 7
			return nil
		},
	}

	c, rec := newRequest(http.MethodPost, "/api/v1/clients", anaBody)

	require.NoError(t, NewClientHandler(svc).CreateClient(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.ClientResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint(7), resp.ID)
	assert.Equal(t, "1990-05-20", resp.BirthDate)
	assert.True(t, resp.Active)
}

func TestCreateClient_Handler_Validation(t *testing.T) {
	h := NewClientHandler(&mockClientService{})

	for _, body := range []string{
		`{"name":"Ana","surname":"Torres","email":"not-an-email","document":"0102030405"}`,
		`{"name":"Ana","surname":"Torres","email":"ana@example.com","document":"0102030405","phone":"12345"}`,
		`{"name":"Ana","surname":"Torres","email":"ana@example.com","document":"0102030405","birth_date":"20/05/1990"}`,
		`{"surname":"Torres","email":"ana@example.com","document":"0102030405"}`,
	} {
		c, _ := newRequest(http.MethodPost, "/api/v1/clients", body)
		assertHTTPError(t, h.CreateClient(c), http.StatusBadRequest, "")
	}
}

func TestCreateClient_Handler_Duplicate(t *testing.T) {
	svc := &mockClientService{
		createFn: func(ctx context.Context, actor session.Actor, client *models.Client) error {
			return fmt.Errorf("%w: email ana@example.com", apperr.ErrDuplicate)
		},
	}

	c, _ := newRequest(http.MethodPost, "/api/v1/clients", anaBody)

	assertHTTPError(t, NewClientHandler(svc).CreateClient(c), http.StatusConflict, "")
}

func TestListClients_Handler_Filter(t *testing.T) {
	var got repository.ClientFilter
	svc := &mockClientService{
		listFn: func(ctx context.Context, filter repository.ClientFilter) ([]models.Client, error) {
			got = filter
			return []models.Client{{ID: 1, Name: "Ana", Surname: "Torres", Active: true}}, nil
		},
	}

	c, rec := newRequest(http.MethodGet, "/api/v1/clients?q=tor&inactive=true", "")

	require.NoError(t, NewClientHandler(svc).ListClients(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tor", got.Search)
	assert.True(t, got.IncludeInactive)
}

func TestUpdateClient_Handler_UsesPathID(t *testing.T) {
	var got *models.Client
	svc := &mockClientService{
		updateFn: func(ctx context.Context, actor session.Actor, client *models.Client) (*models.Client, error) {
			got = client
			return client, nil
		},
	}

	c, rec := newRequest(http.MethodPut, "/api/v1/clients/4", anaBody)
	c.SetParamNames("id")
	c.SetParamValues("4")

	require.NoError(t, NewClientHandler(svc).UpdateClient(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(4), got.ID)
}

func TestDeleteClient_Handler(t *testing.T) {
	svc := &mockClientService{
		deleteFn: func(ctx context.Context, actor session.Actor, id uint) error {
			if id == 1 {
				return fmt.Errorf("client 1: %w, deactivate instead", apperr.ErrInUse)
			}
			return nil
		},
	}
	h := NewClientHandler(svc)

	c, rec := newRequest(http.MethodDelete, "/api/v1/clients/2", "")
	c.SetParamNames("id")
	c.SetParamValues("2")
	require.NoError(t, h.DeleteClient(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, _ = newRequest(http.MethodDelete, "/api/v1/clients/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	assertHTTPError(t, h.DeleteClient(c), http.StatusConflict, "")
}
