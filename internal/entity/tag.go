package entity

import "time"

// DbTag 表示全局标签字典中的一项，名称唯一。
type DbTag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string `gorm:"column:name;size:64;uniqueIndex;not null" json:"name"`
}

// TableName 指定表名
func (DbTag) TableName() string {
	return "tags"
}

// DbNoteTag 是笔记与标签的关联表。
type DbNoteTag struct {
	NoteID    uint      `gorm:"primaryKey" json:"note_id"`
	TagID     uint      `gorm:"primaryKey" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (DbNoteTag) TableName() string {
	return "note_tags"
}
