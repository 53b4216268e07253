package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memHistoryRepo struct {
	items    map[string]*model.Item
	versions []model.ItemVersion
	closedAt map[uuid.UUID]time.Time
}

func newMemHistoryRepo() *memHistoryRepo {
	return &memHistoryRepo{
		items:    make(map[string]*model.Item),
		closedAt: make(map[uuid.UUID]time.Time),
	}
}

func (m *memHistoryRepo) ListVersionsCovering(context.Context, time.Time) ([]model.ItemVersion, error) {
	return nil, nil
}

func (m *memHistoryRepo) ListByItem(_ context.Context, itemID uuid.UUID) ([]model.ItemVersion, error) {
	var out []model.ItemVersion
	for _, v := range m.versions {
		if v.ItemID == itemID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memHistoryRepo) OpenVersion(_ context.Context, itemID uuid.UUID) (*model.ItemVersion, error) {
	for i := range m.versions {
		v := &m.versions[i]
		if v.ItemID == itemID && v.ValidTo == nil {
			copied := *v
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memHistoryRepo) CloseVersion(_ context.Context, versionID uuid.UUID, at time.Time) error {
	for i := range m.versions {
		if m.versions[i].ID == versionID {
			m.versions[i].ValidTo = &at
			m.closedAt[versionID] = at
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memHistoryRepo) CreateVersion(_ context.Context, v *model.ItemVersion) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	m.versions = append(m.versions, *v)
	return nil
}

func (m *memHistoryRepo) FindItemByCode(_ context.Context, code string) (*model.Item, error) {
	item, ok := m.items[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (m *memHistoryRepo) CreateItem(_ context.Context, item *model.Item) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	m.items[item.ItemCode] = item
	return nil
}

func changeReq(price string) RecordItemChangeRequest {
	return RecordItemChangeRequest{
		ItemCode:   "MLB-001",
		Title:      "Wireless Mouse",
		Category:   "Electronics",
		Condition:  model.ConditionNew,
		Status:     model.ItemStatusActive,
		Price:      price,
		SellerCode: "SELL-01",
	}
}

func TestRecordChangeCreatesItemAndFirstInterval(t *testing.T) {
	repo := newMemHistoryRepo()
	svc := NewItemHistoryService(repo, passthroughTxManager{}, nil)
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	resp, err := svc.RecordChange(context.Background(), changeReq("149.90"), at, "")
	require.NoError(t, err)

	assert.Equal(t, "MLB-001", resp.ItemCode)
	assert.Nil(t, resp.ValidTo)
	require.Len(t, repo.versions, 1)
	assert.Nil(t, repo.versions[0].ValidTo)
}

func TestRecordChangeClosesOpenInterval(t *testing.T) {
	repo := newMemHistoryRepo()
	svc := NewItemHistoryService(repo, passthroughTxManager{}, nil)
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.AddDate(0, 2, 0)

	_, err := svc.RecordChange(context.Background(), changeReq("149.90"), t1, "")
	require.NoError(t, err)
	_, err = svc.RecordChange(context.Background(), changeReq("129.90"), t2, "")
	require.NoError(t, err)

	require.Len(t, repo.versions, 2)
	require.NotNil(t, repo.versions[0].ValidTo)
	// old ValidTo equals new ValidFrom: the timeline has no gap and no overlap
	assert.Equal(t, t2, *repo.versions[0].ValidTo)
	assert.Equal(t, t2, repo.versions[1].ValidFrom)
	assert.Nil(t, repo.versions[1].ValidTo)
}

func TestRecordChangeUnchangedAttributesIsNoOp(t *testing.T) {
	repo := newMemHistoryRepo()
	svc := NewItemHistoryService(repo, passthroughTxManager{}, nil)
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.RecordChange(context.Background(), changeReq("149.90"), t1, "")
	require.NoError(t, err)
	resp, err := svc.RecordChange(context.Background(), changeReq("149.90"), t1.AddDate(0, 1, 0), "")
	require.NoError(t, err)

	assert.Len(t, repo.versions, 1)
	assert.Nil(t, resp.ValidTo)
}

func TestRecordChangeRejectsNonPostdatingChange(t *testing.T) {
	repo := newMemHistoryRepo()
	svc := NewItemHistoryService(repo, passthroughTxManager{}, nil)
	t1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.RecordChange(context.Background(), changeReq("149.90"), t1, "")
	require.NoError(t, err)
	_, err = svc.RecordChange(context.Background(), changeReq("129.90"), t1.AddDate(0, -1, 0), "")
	assert.Error(t, err)

	// the open interval is untouched after the rejected change
	assert.Len(t, repo.versions, 1)
	assert.Nil(t, repo.versions[0].ValidTo)
}

func TestRecordChangeRejectsBadPrice(t *testing.T) {
	svc := NewItemHistoryService(newMemHistoryRepo(), passthroughTxManager{}, nil)
	req := changeReq("not-a-price")
	_, err := svc.RecordChange(context.Background(), req, time.Now(), "")
	assert.Error(t, err)
}
