package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type RecordItemChangeRequest struct {
	ItemCode   string `json:"item_code" binding:"required"`
	Title      string `json:"title" binding:"required"`
	Category   string `json:"category" binding:"required"`
	Condition  string `json:"condition" binding:"required,oneof=NEW USED"`
	Status     string `json:"status" binding:"required,oneof=ACTIVE PAUSED CLOSED"`
	Price      string `json:"price" binding:"required"`       // decimal string, e.g. "149.90"
	SellerCode string `json:"seller_code" binding:"required"`
	ChangedAt  string `json:"changed_at"` // RFC3339, defaults to request time at the handler
}

type ItemVersionResponse struct {
	ID         string  `json:"id"`
	ItemCode   string  `json:"item_code"`
	Title      string  `json:"title"`
	Category   string  `json:"category"`
	Condition  string  `json:"condition"`
	Status     string  `json:"status"`
	Price      string  `json:"price"`
	SellerCode string  `json:"seller_code"`
	ValidFrom  string  `json:"valid_from"`
	ValidTo    *string `json:"valid_to"`
}

// --- Interface ---

type ItemHistoryService interface {
	// RecordChange appends a new state interval for an item: the open
	// interval is closed at changedAt and a new one opened from it.
	// Intervals are never rewritten; an unchanged attribute set is a
	// no-op so the history carries no zero-length noise.
	RecordChange(ctx context.Context, req RecordItemChangeRequest, changedAt time.Time, userID string) (*ItemVersionResponse, error)
	GetHistory(ctx context.Context, itemCode string) ([]ItemVersionResponse, error)
}

type itemHistoryService struct {
	repo      repository.ItemHistoryRepository
	txManager repository.TransactionManager
	db        *gorm.DB
}

func NewItemHistoryService(repo repository.ItemHistoryRepository, txManager repository.TransactionManager, db *gorm.DB) ItemHistoryService {
	return &itemHistoryService{repo: repo, txManager: txManager, db: db}
}

// --- Implementation ---

func (s *itemHistoryService) RecordChange(ctx context.Context, req RecordItemChangeRequest, changedAt time.Time, userID string) (*ItemVersionResponse, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price value: %w", err)
	}

	var created *model.ItemVersion
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, err := s.repo.FindItemByCode(txCtx, req.ItemCode)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item = &model.Item{ItemCode: req.ItemCode}
			if err := s.repo.CreateItem(txCtx, item); err != nil {
				return fmt.Errorf("failed to create item: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to look up item: %w", err)
		}

		next := model.ItemVersion{
			ItemID:     item.ID,
			Title:      req.Title,
			Category:   req.Category,
			Condition:  req.Condition,
			Status:     req.Status,
			Price:      price,
			SellerCode: req.SellerCode,
			ValidFrom:  changedAt,
		}

		open, err := s.repo.OpenVersion(txCtx, item.ID)
		if err != nil {
			return err
		}
		if open != nil {
			if open.SameAttributes(next) {
				created = open
				return nil
			}
			if !changedAt.After(open.ValidFrom) {
				return fmt.Errorf("change at %s does not postdate the open interval starting %s",
					changedAt.Format(time.RFC3339), open.ValidFrom.Format(time.RFC3339))
			}
			if err := s.repo.CloseVersion(txCtx, open.ID, changedAt); err != nil {
				return err
			}
		}

		if err := s.repo.CreateVersion(txCtx, &next); err != nil {
			return fmt.Errorf("failed to create item version: %w", err)
		}
		created = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.writeAuditLog(ctx, userID, req)

	resp := toItemVersionResponse(*created, req.ItemCode)
	return &resp, nil
}

func (s *itemHistoryService) GetHistory(ctx context.Context, itemCode string) ([]ItemVersionResponse, error) {
	item, err := s.repo.FindItemByCode(ctx, itemCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item %q not found", itemCode)
		}
		return nil, fmt.Errorf("failed to look up item: %w", err)
	}

	versions, err := s.repo.ListByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	res := make([]ItemVersionResponse, 0, len(versions))
	for _, v := range versions {
		res = append(res, toItemVersionResponse(v, itemCode))
	}
	return res, nil
}

func toItemVersionResponse(v model.ItemVersion, itemCode string) ItemVersionResponse {
	resp := ItemVersionResponse{
		ID:         v.ID.String(),
		ItemCode:   itemCode,
		Title:      v.Title,
		Category:   v.Category,
		Condition:  v.Condition,
		Status:     v.Status,
		Price:      v.Price.StringFixed(4),
		SellerCode: v.SellerCode,
		ValidFrom:  v.ValidFrom.Format(time.RFC3339),
	}
	if v.ValidTo != nil {
		s := v.ValidTo.Format(time.RFC3339)
		resp.ValidTo = &s
	}
	return resp
}

func (s *itemHistoryService) writeAuditLog(ctx context.Context, userID string, req RecordItemChangeRequest) {
	if s.db == nil {
		return
	}
	details, _ := json.Marshal(req)

	entry := model.AuditLog{
		Action:     model.ActionRecordItemChange,
		EntityID:   req.ItemCode,
		EntityName: req.Title,
		Details:    string(details),
	}
	if userID != "" {
		if parsed, err := parseUserID(userID); err == nil {
			entry.UserID = parsed
		}
	}

	// Best-effort audit log — don't fail the operation if logging fails
	_ = s.db.WithContext(ctx).Create(&entry).Error
}
