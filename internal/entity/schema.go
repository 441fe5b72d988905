package entity

import "time"

// DbRatingSchema 表示一套版本化的评分模板（总评分范围 + 若干评分维度）。
// 一旦有笔记引用某个版本，该版本即视为不可变，调整维度需要发布新版本。
type DbRatingSchema struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Code    string `gorm:"column:code;type:varchar(50);not null;uniqueIndex:uk_schema_code_version,priority:1" json:"code"`
	Version int    `gorm:"column:version;not null;default:1;uniqueIndex:uk_schema_code_version,priority:2" json:"version"`
	Name    string `gorm:"column:name;type:varchar(255);not null" json:"name"`

	MinOverall  float64 `gorm:"column:min_overall;not null;default:0" json:"min_overall"`
	MaxOverall  float64 `gorm:"column:max_overall;not null;default:5" json:"max_overall"`
	StepOverall float64 `gorm:"column:step_overall;not null;default:0.5" json:"step_overall"`

	IsActive bool `gorm:"column:is_active;not null;default:true;index" json:"is_active"`

	Axes []DbRatingAxis `gorm:"foreignKey:SchemaID" json:"axes,omitempty"`
}

// TableName overrides default pluralised name.
func (DbRatingSchema) TableName() string {
	return "rating_schemas"
}

// DbRatingAxis 表示评分模板下的一个评分维度（例如“浓郁度”）。
type DbRatingAxis struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SchemaID uint   `gorm:"column:schema_id;not null;index" json:"schema_id"`
	Code     string `gorm:"column:code;type:varchar(50);not null" json:"code"`
	Name     string `gorm:"column:name;type:varchar(255);not null" json:"name"`

	MinValue  float64 `gorm:"column:min_value;not null;default:1" json:"min_value"`
	MaxValue  float64 `gorm:"column:max_value;not null;default:5" json:"max_value"`
	StepValue float64 `gorm:"column:step_value;not null;default:1" json:"step_value"`

	DisplayOrder int  `gorm:"column:display_order;not null;default:0" json:"display_order"`
	IsRequired   bool `gorm:"column:is_required;not null;default:false" json:"is_required"`
}

// TableName overrides default pluralised name.
func (DbRatingAxis) TableName() string {
	return "rating_axes"
}

type SchemaListResponse struct {
	Schemas []DbRatingSchema `json:"schemas"`
}

type SchemaAxesResponse struct {
	Axes []DbRatingAxis `json:"axes"`
}
