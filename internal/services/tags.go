package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/letsgoal/letsgoal-api/internal/models"
	"gorm.io/gorm"
)

// Tags are plain per-user labels; the only rule with teeth (owner-scoped
// assignment) lives in Goals.Update.

func (s *Goals) CreateTag(userID uuid.UUID, req models.CreateTagRequest) (*models.Tag, error) {
	if req.Name == "" {
		return nil, invalid("Tag name is required")
	}
	if req.Color == "" {
		return nil, invalid("Tag color is required")
	}

	var count int64
	if err := s.db.Model(&models.Tag{}).Where("user_id = ? AND name = ?", userID, req.Name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, invalid("A tag with this name already exists")
	}

	tag := models.Tag{UserID: userID, Name: req.Name, Color: req.Color}
	if err := s.db.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *Goals) ListTags(userID uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.Where("user_id = ?", userID).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *Goals) UpdateTag(userID, tagID uuid.UUID, req models.UpdateTagRequest) (*models.Tag, error) {
	tag, err := s.findTag(userID, tagID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil && *req.Name != "" && *req.Name != tag.Name {
		var count int64
		if err := s.db.Model(&models.Tag{}).Where("user_id = ? AND name = ?", userID, *req.Name).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, invalid("A tag with this name already exists")
		}
		tag.Name = *req.Name
	}
	if req.Color != nil && *req.Color != "" {
		tag.Color = *req.Color
	}
	if err := s.db.Save(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *Goals) DeleteTag(userID, tagID uuid.UUID) error {
	tag, err := s.findTag(userID, tagID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(tag).Association("Goals").Clear(); err != nil {
			return err
		}
		return tx.Delete(tag).Error
	})
}

func (s *Goals) findTag(userID, tagID uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.First(&tag, "id = ? AND user_id = ?", tagID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Tag")
		}
		return nil, err
	}
	return &tag, nil
}
