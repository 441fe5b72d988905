package entity

import "time"

// DbNote represents a persisted tasting note.
type DbNote struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TeaID    uint `gorm:"column:tea_id;not null;index" json:"tea_id"`
	UserID   uint `gorm:"column:user_id;not null;index" json:"user_id"`
	SchemaID uint `gorm:"column:schema_id;not null;index" json:"schema_id"`

	// OverallRating 可为空：一条笔记可以只记录维度评分而不给总评分。
	OverallRating    *float64    `gorm:"column:overall_rating" json:"overall_rating"`
	IsRatingIncluded bool        `gorm:"column:is_rating_included;not null;default:true" json:"is_rating_included"`
	Memo             string      `gorm:"column:memo;type:text" json:"memo"`
	Images           StringArray `gorm:"column:images;type:text" json:"images"`
	IsPublic         bool        `gorm:"column:is_public;not null;default:true;index" json:"is_public"`
}

// TableName overrides default pluralised name.
func (DbNote) TableName() string {
	return "notes"
}

// DbNoteAxisValue 表示笔记在某个评分维度上提交的数值。
// (note_id, axis_id) 唯一；更新时整组 delete-then-insert，不做逐行修补。
type DbNoteAxisValue struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	NoteID uint    `gorm:"column:note_id;not null;uniqueIndex:uk_note_axis,priority:1" json:"note_id"`
	AxisID uint    `gorm:"column:axis_id;not null;uniqueIndex:uk_note_axis,priority:2" json:"axis_id"`
	Value  float64 `gorm:"column:value;not null" json:"value"`
}

// TableName overrides default pluralised name.
func (DbNoteAxisValue) TableName() string {
	return "note_axis_values"
}

// AxisValueInput 是创建/更新笔记时提交的单个维度评分。
type AxisValueInput struct {
	AxisID uint    `json:"axis_id" binding:"required"`
	Value  float64 `json:"value"`
}

type NoteCreateRequest struct {
	TeaID            uint             `json:"tea_id" binding:"required"`
	SchemaID         uint             `json:"schema_id" binding:"required"`
	OverallRating    *float64         `json:"overall_rating"`
	IsRatingIncluded *bool            `json:"is_rating_included"`
	AxisValues       []AxisValueInput `json:"axis_values"`
	Memo             string           `json:"memo"`
	Images           []string         `json:"images"`
	Tags             []string         `json:"tags"`
	IsPublic         *bool            `json:"is_public"`
}

// NoteUpdateRequest 是部分更新请求。指针为 nil 表示该字段未提交、保持原值；
// AxisValues/Tags 提交空数组与不提交含义不同：空数组表示清空。
type NoteUpdateRequest struct {
	SchemaID         *uint             `json:"schema_id"`
	OverallRating    *float64          `json:"overall_rating"`
	IsRatingIncluded *bool             `json:"is_rating_included"`
	AxisValues       *[]AxisValueInput `json:"axis_values"`
	Memo             *string           `json:"memo"`
	Images           *[]string         `json:"images"`
	Tags             *[]string         `json:"tags"`
	IsPublic         *bool             `json:"is_public"`
}

// NoteAxisValueItem 是返回给客户端的维度评分。
type NoteAxisValueItem struct {
	AxisID   uint    `json:"axis_id"`
	AxisCode string  `json:"axis_code"`
	AxisName string  `json:"axis_name"`
	Value    float64 `json:"value"`
}

// NoteView 是完整水合后的笔记视图，点赞/收藏状态按请求者视角计算，不落库。
type NoteView struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TeaID    uint `json:"tea_id"`
	UserID   uint `json:"user_id"`
	SchemaID uint `json:"schema_id"`

	OverallRating    *float64 `json:"overall_rating"`
	IsRatingIncluded bool     `json:"is_rating_included"`
	Memo             string   `json:"memo"`
	Images           []string `json:"images"`
	IsPublic         bool     `json:"is_public"`

	AxisValues []NoteAxisValueItem `json:"axis_values"`
	Tags       []string            `json:"tags"`

	LikeCount    int64 `json:"like_count"`
	IsLiked      bool  `json:"is_liked"`
	IsBookmarked bool  `json:"is_bookmarked"`
}

// NoteQuery supports listing notes with pagination.
type NoteQuery struct {
	BaseParams
	UserID             uint  `json:"user_id" form:"user_id" query:"user_id"`
	TeaID              uint  `json:"tea_id" form:"tea_id" query:"tea_id"`
	IsPublic           *bool `json:"is_public" form:"is_public" query:"is_public"`
	BookmarkedByViewer bool  `json:"bookmarked" form:"bookmarked" query:"bookmarked"`

	// ViewerID 由处理器从认证信息填充，不来自查询参数。
	ViewerID uint `json:"-" form:"-"`
}

type NoteListResponse struct {
	Notes []NoteView `json:"notes"`
	Meta  *Meta      `json:"meta"`
}
