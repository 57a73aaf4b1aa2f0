package services

import (
	"context"
	"testing"
	"time"

	"campuseventhub/internal/domain"

	"github.com/stretchr/testify/require"
)

type listRecordingRepo struct {
	stubEventRepo
	gotFilter domain.EventFilter
	gotParams domain.PaginationParams
	out       []*domain.Event
}

func (m *listRecordingRepo) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	m.gotFilter = filter
	m.gotParams = params
	return m.out, len(m.out), nil
}

func TestCatalogService_ListEvents(t *testing.T) {
	repo := &listRecordingRepo{out: []*domain.Event{{ID: "ev-1"}, {ID: "ev-2"}}}
	svc := NewCatalogService(repo, time.Second)

	filter := domain.EventFilter{Search: "tech", Category: domain.CategoryTechnical}
	params := domain.PaginationParams{Page: 2, PageSize: 10}
	events, total, err := svc.ListEvents(context.Background(), filter, params)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, events, 2)
	require.Equal(t, filter, repo.gotFilter)
	require.Equal(t, params, repo.gotParams)
}

func TestCatalogService_GetEvent(t *testing.T) {
	repo := &stubEventRepo{events: map[string]*domain.Event{
		"ev-1": {ID: "ev-1", Title: "Orientation"},
	}}
	svc := NewCatalogService(repo, time.Second)

	ev, err := svc.GetEvent(context.Background(), "ev-1")
	require.NoError(t, err)
	require.Equal(t, "Orientation", ev.Title)

	_, err = svc.GetEvent(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
