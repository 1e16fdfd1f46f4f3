package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// 仓储层的业务错误，handler 据此映射状态码。
var (
	ErrHistoryFull = errors.New("history limit reached")
	ErrNotFound    = gorm.ErrRecordNotFound
)

// HistoryLimit 是每个用户可保留的快照上限。
const HistoryLimit = 20

// DocumentStore 管理用户的工作文档。
type DocumentStore struct {
	db *gorm.DB
}

func NewDocumentStore(db *gorm.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Get 返回用户的工作文档，不存在时返回 ErrNotFound。
func (s *DocumentStore) Get(ctx context.Context, userID uint) (*WorkingDocument, error) {
	var doc WorkingDocument
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// Save 覆盖写入用户的工作文档，不存在时创建。
func (s *DocumentStore) Save(ctx context.Context, userID uint, content []byte) (*WorkingDocument, error) {
	var doc WorkingDocument
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch err := tx.Where("user_id = ?", userID).First(&doc).Error; {
		case err == nil:
			return tx.Model(&doc).Update("content", content).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			doc = WorkingDocument{UserID: userID, Content: content}
			return tx.Create(&doc).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, fmt.Errorf("save working document: %w", err)
	}
	return &doc, nil
}

// HistoryStore 管理工作文档的历史快照。
type HistoryStore struct {
	db    *gorm.DB
	limit int
}

func NewHistoryStore(db *gorm.DB) *HistoryStore {
	return &HistoryStore{db: db, limit: HistoryLimit}
}

// List 按时间倒序返回用户的全部快照。
func (s *HistoryStore) List(ctx context.Context, userID uint) ([]HistorySnapshot, error) {
	var items []HistorySnapshot
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return items, nil
}

// Get 返回单条快照，校验归属。
func (s *HistoryStore) Get(ctx context.Context, userID, snapshotID uint) (*HistorySnapshot, error) {
	var snap HistorySnapshot
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", snapshotID, userID).
		First(&snap).Error; err != nil {
		return nil, err
	}
	return &snap, nil
}

// Append 追加一条快照。
// 达到上限且未确认淘汰时返回 ErrHistoryFull，快照列表保持不变；
// 确认淘汰时在同一事务里删除最旧一条再插入，总数保持不变。
func (s *HistoryStore) Append(ctx context.Context, snap *HistorySnapshot, confirmEvict bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&HistorySnapshot{}).
			Where("user_id = ?", snap.UserID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("count history: %w", err)
		}

		if count >= int64(s.limit) {
			if !confirmEvict {
				return ErrHistoryFull
			}
			var oldest HistorySnapshot
			if err := tx.Where("user_id = ?", snap.UserID).
				Order("created_at ASC, id ASC").
				First(&oldest).Error; err != nil {
				return fmt.Errorf("find oldest snapshot: %w", err)
			}
			if err := tx.Unscoped().Delete(&oldest).Error; err != nil {
				return fmt.Errorf("evict oldest snapshot: %w", err)
			}
		}

		if err := tx.Create(snap).Error; err != nil {
			return fmt.Errorf("create snapshot: %w", err)
		}
		return nil
	})
}

// Remove 删除单条快照，校验归属。
func (s *HistoryStore) Remove(ctx context.Context, userID, snapshotID uint) error {
	res := s.db.WithContext(ctx).Unscoped().
		Where("id = ? AND user_id = ?", snapshotID, userID).
		Delete(&HistorySnapshot{})
	if res.Error != nil {
		return fmt.Errorf("remove snapshot: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Clear 清空用户的全部快照。
func (s *HistoryStore) Clear(ctx context.Context, userID uint) error {
	if err := s.db.WithContext(ctx).Unscoped().
		Where("user_id = ?", userID).
		Delete(&HistorySnapshot{}).Error; err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Count 返回用户当前的快照数量。
func (s *HistoryStore) Count(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&HistorySnapshot{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// TemplateStore 管理自定义模板。
type TemplateStore struct {
	db *gorm.DB
}

func NewTemplateStore(db *gorm.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

func (s *TemplateStore) Create(ctx context.Context, tpl *CustomTemplate) error {
	if err := s.db.WithContext(ctx).Create(tpl).Error; err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

func (s *TemplateStore) List(ctx context.Context, userID uint) ([]CustomTemplate, error) {
	var items []CustomTemplate
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return items, nil
}

func (s *TemplateStore) Get(ctx context.Context, userID, templateID uint) (*CustomTemplate, error) {
	var tpl CustomTemplate
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", templateID, userID).
		First(&tpl).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (s *TemplateStore) Update(ctx context.Context, tpl *CustomTemplate) error {
	if err := s.db.WithContext(ctx).Save(tpl).Error; err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

func (s *TemplateStore) Delete(ctx context.Context, userID, templateID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", templateID, userID).
		Delete(&CustomTemplate{})
	if res.Error != nil {
		return fmt.Errorf("delete template: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AssetStore 记录上传资产的归属。
type AssetStore struct {
	db *gorm.DB
}

func NewAssetStore(db *gorm.DB) *AssetStore {
	return &AssetStore{db: db}
}

func (s *AssetStore) Create(ctx context.Context, asset Asset) error {
	if err := s.db.WithContext(ctx).Create(&asset).Error; err != nil {
		return fmt.Errorf("create asset: %w", err)
	}
	return nil
}

func (s *AssetStore) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Asset{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (s *AssetStore) DeleteByKey(ctx context.Context, userID uint, objectKey string) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND object_key = ?", userID, objectKey).
		Delete(&Asset{})
	if res.Error != nil {
		return fmt.Errorf("delete asset: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
