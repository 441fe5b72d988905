package sql

import (
	"context"
	"errors"
	"fmt"
	"teanote/internal/entity"

	"gorm.io/gorm"
)

// ToggleNoteLike flips the like state of (noteID, userID) and returns the new
// state plus the note's like count, both observed inside one transaction.
//
// 正确性机制是 (note_id, user_id) 上的唯一索引。插入撞上唯一约束说明
// 并发请求抢先插入了同一行，此时按"已点赞"继续而不是报错。
func (r *GormRepository) ToggleNoteLike(ctx context.Context, noteID, userID uint) (bool, int64, error) {
	if r == nil || r.db == nil {
		return false, 0, fmt.Errorf("repository not initialised")
	}
	if noteID == 0 || userID == 0 {
		return false, 0, fmt.Errorf("invalid note or user id")
	}

	var liked bool
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadNoteForToggle(tx, noteID, userID); err != nil {
			return err
		}

		var existing entity.DbNoteLike
		err := tx.Where("note_id = ? AND user_id = ?", noteID, userID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := entity.DbNoteLike{NoteID: noteID, UserID: userID}
			if err := tx.Create(&row).Error; err != nil {
				if !errors.Is(err, gorm.ErrDuplicatedKey) {
					return err
				}
				// 并发请求已插入同一行，视为插入成功
			}
			liked = true
		default:
			return err
		}

		// 计数在同一事务内读取，反映本次切换之后的状态
		return tx.Model(&entity.DbNoteLike{}).Where("note_id = ?", noteID).Count(&count).Error
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

// ToggleNoteBookmark flips the bookmark state of (noteID, userID). Same
// transaction + unique-index + duplicate-catch pattern as ToggleNoteLike;
// bookmarks do not track an aggregate count.
func (r *GormRepository) ToggleNoteBookmark(ctx context.Context, noteID, userID uint) (bool, error) {
	if r == nil || r.db == nil {
		return false, fmt.Errorf("repository not initialised")
	}
	if noteID == 0 || userID == 0 {
		return false, fmt.Errorf("invalid note or user id")
	}

	var bookmarked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadNoteForToggle(tx, noteID, userID); err != nil {
			return err
		}

		var existing entity.DbNoteBookmark
		err := tx.Where("note_id = ? AND user_id = ?", noteID, userID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			bookmarked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := entity.DbNoteBookmark{NoteID: noteID, UserID: userID}
			if err := tx.Create(&row).Error; err != nil {
				if !errors.Is(err, gorm.ErrDuplicatedKey) {
					return err
				}
			}
			bookmarked = true
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return bookmarked, nil
}

// loadNoteForToggle loads the target note inside the toggle transaction and
// applies the visibility rule: a private note can only be liked or
// bookmarked by its author.
func loadNoteForToggle(tx *gorm.DB, noteID, userID uint) (*entity.DbNote, error) {
	var note entity.DbNote
	if err := tx.First(&note, noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNoteNotFound
		}
		return nil, err
	}
	if !note.IsPublic && note.UserID != userID {
		return nil, entity.ErrForbidden
	}
	return &note, nil
}

// CountNoteLikes returns the number of likes of a note.
func (r *GormRepository) CountNoteLikes(ctx context.Context, noteID uint) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	if noteID == 0 {
		return 0, fmt.Errorf("invalid note id")
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.DbNoteLike{}).Where("note_id = ?", noteID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// HasNoteLike reports whether the user has liked the note.
func (r *GormRepository) HasNoteLike(ctx context.Context, noteID, userID uint) (bool, error) {
	if r == nil || r.db == nil {
		return false, fmt.Errorf("repository not initialised")
	}
	if noteID == 0 || userID == 0 {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&entity.DbNoteLike{}).
		Where("note_id = ? AND user_id = ?", noteID, userID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasNoteBookmark reports whether the user has bookmarked the note.
func (r *GormRepository) HasNoteBookmark(ctx context.Context, noteID, userID uint) (bool, error) {
	if r == nil || r.db == nil {
		return false, fmt.Errorf("repository not initialised")
	}
	if noteID == 0 || userID == 0 {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&entity.DbNoteBookmark{}).
		Where("note_id = ? AND user_id = ?", noteID, userID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
