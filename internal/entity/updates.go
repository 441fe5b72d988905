package entity

// NoteUpdates 笔记更新字段
type NoteUpdates struct {
	SchemaID         *uint
	OverallRating    *float64
	IsRatingIncluded *bool
	Memo             *string
	Images           *StringArray
	IsPublic         *bool
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u NoteUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.SchemaID != nil {
		updates["schema_id"] = *u.SchemaID
	}
	if u.OverallRating != nil {
		updates["overall_rating"] = *u.OverallRating
	}
	if u.IsRatingIncluded != nil {
		updates["is_rating_included"] = *u.IsRatingIncluded
	}
	if u.Memo != nil {
		updates["memo"] = *u.Memo
	}
	if u.Images != nil {
		updates["images"] = *u.Images
	}
	if u.IsPublic != nil {
		updates["is_public"] = *u.IsPublic
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u NoteUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
