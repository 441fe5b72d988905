package entity

import "time"

// DbNoteLike 表示某用户对某条笔记的点赞。
// 行的存在即状态本身，没有与之同步的布尔字段。
// (note_id, user_id) 上的唯一索引是并发切换的正确性保障。
type DbNoteLike struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	NoteID uint `gorm:"column:note_id;not null;uniqueIndex:uk_note_like_user,priority:1" json:"note_id"`
	UserID uint `gorm:"column:user_id;not null;uniqueIndex:uk_note_like_user,priority:2" json:"user_id"`
}

// TableName 指定表名
func (DbNoteLike) TableName() string {
	return "note_likes"
}

// DbNoteBookmark 表示某用户对某条笔记的收藏，约束同 DbNoteLike。
type DbNoteBookmark struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	NoteID uint `gorm:"column:note_id;not null;uniqueIndex:uk_note_bookmark_user,priority:1" json:"note_id"`
	UserID uint `gorm:"column:user_id;not null;uniqueIndex:uk_note_bookmark_user,priority:2" json:"user_id"`
}

// TableName 指定表名
func (DbNoteBookmark) TableName() string {
	return "note_bookmarks"
}

type ToggleLikeResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

type ToggleBookmarkResponse struct {
	Bookmarked bool `json:"bookmarked"`
}
