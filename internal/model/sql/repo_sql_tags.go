package sql

import (
	"context"
	"fmt"
	"teanote/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SetNoteTags replaces the tag set of a note. Tag names are expected to be
// normalised and deduplicated by the caller; each name is find-or-created in
// the global tag dictionary before the associations are rewritten.
func (r *GormRepository) SetNoteTags(ctx context.Context, noteID uint, names []string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if noteID == 0 {
		return fmt.Errorf("invalid note id")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var note entity.DbNote
		if err := tx.First(&note, noteID).Error; err != nil {
			return err
		}

		tagIDs := make([]uint, 0, len(names))
		for _, name := range names {
			var tag entity.DbTag
			err := tx.Where("name = ?", name).First(&tag).Error
			switch {
			case err == nil:
			case err == gorm.ErrRecordNotFound:
				tag = entity.DbTag{Name: name}
				if err := tx.Create(&tag).Error; err != nil {
					return err
				}
			default:
				return err
			}
			tagIDs = append(tagIDs, tag.ID)
		}

		if err := tx.Where("note_id = ?", noteID).Delete(&entity.DbNoteTag{}).Error; err != nil {
			return err
		}
		if len(tagIDs) == 0 {
			return nil
		}

		links := make([]entity.DbNoteTag, 0, len(tagIDs))
		for _, tagID := range tagIDs {
			links = append(links, entity.DbNoteTag{NoteID: noteID, TagID: tagID})
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
	})
}

// ListNoteTagNames returns the tag names attached to a note, sorted by name.
func (r *GormRepository) ListNoteTagNames(ctx context.Context, noteID uint) ([]string, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if noteID == 0 {
		return nil, fmt.Errorf("invalid note id")
	}

	var names []string
	err := r.db.WithContext(ctx).
		Model(&entity.DbTag{}).
		Select("tags.name").
		Joins("JOIN note_tags ON note_tags.tag_id = tags.id").
		Where("note_tags.note_id = ?", noteID).
		Order("tags.name ASC").
		Pluck("tags.name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}
