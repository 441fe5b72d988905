package entity

import "time"

// DbTea represents a persisted tea.
//
// AverageRating 和 ReviewCount 是派生字段，唯一的写入方是品茶笔记服务的
// 聚合重算（repo.UpdateTeaRating）。其他任何代码不得直接修改这两个字段。
type DbTea struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string `gorm:"column:name;type:varchar(255);not null;index" json:"name"`
	Brand       string `gorm:"column:brand;type:varchar(255)" json:"brand"`
	TeaType     string `gorm:"column:tea_type;type:varchar(50);index" json:"tea_type"`
	Description string `gorm:"column:description;type:text" json:"description"`

	AverageRating float64 `gorm:"column:average_rating;not null;default:0" json:"average_rating"`
	ReviewCount   int64   `gorm:"column:review_count;not null;default:0" json:"review_count"`
}

// TableName overrides default pluralised name.
func (DbTea) TableName() string {
	return "teas"
}

type TeaCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Brand       string `json:"brand"`
	TeaType     string `json:"tea_type"`
	Description string `json:"description"`
}

// TeaQuery supports listing teas with pagination.
type TeaQuery struct {
	BaseParams
	TeaType string `json:"tea_type" form:"tea_type" query:"tea_type"`
	Keyword string `json:"keyword" form:"keyword" query:"keyword"`
}

type TeaListResponse struct {
	Teas []DbTea `json:"teas"`
	Meta *Meta   `json:"meta"`
}
