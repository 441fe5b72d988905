package model

import (
	"context"
	"teanote/internal/entity"
)

// Repository 定义数据库操作接口
type Repository interface {
	// 茶品管理
	CreateTea(ctx context.Context, tea *entity.DbTea) error
	GetTea(ctx context.Context, id uint) (*entity.DbTea, error)
	ListTeas(ctx context.Context, params *entity.TeaQuery) ([]entity.DbTea, *entity.Meta, error)
	// UpdateTeaRating 是派生字段 average_rating/review_count 的唯一写入口。
	UpdateTeaRating(ctx context.Context, teaID uint, avg float64, count int64) error

	// 评分模板（只读参照数据）
	CreateSchema(ctx context.Context, schema *entity.DbRatingSchema) error
	GetSchema(ctx context.Context, id uint) (*entity.DbRatingSchema, error)
	ListActiveSchemas(ctx context.Context) ([]entity.DbRatingSchema, error)
	ListSchemaAxes(ctx context.Context, schemaID uint) ([]entity.DbRatingAxis, error)
	FindAxesByIDs(ctx context.Context, ids []uint) ([]entity.DbRatingAxis, error)
	CountSchemas(ctx context.Context) (int64, error)

	// 品茶笔记
	CreateNote(ctx context.Context, note *entity.DbNote) error
	GetNote(ctx context.Context, id uint) (*entity.DbNote, error)
	UpdateNote(ctx context.Context, id uint, updates entity.NoteUpdates) error
	DeleteNote(ctx context.Context, id uint) error
	ListNotes(ctx context.Context, params *entity.NoteQuery) ([]entity.DbNote, *entity.Meta, error)
	ListRatingIncludedNotes(ctx context.Context, teaID uint) ([]entity.DbNote, error)

	// 维度评分（整组替换语义）
	ReplaceNoteAxisValues(ctx context.Context, noteID uint, values []entity.DbNoteAxisValue) error
	ListNoteAxisValues(ctx context.Context, noteID uint) ([]entity.DbNoteAxisValue, error)

	// 标签
	SetNoteTags(ctx context.Context, noteID uint, names []string) error
	ListNoteTagNames(ctx context.Context, noteID uint) ([]string, error)

	// 点赞 / 收藏
	ToggleNoteLike(ctx context.Context, noteID, userID uint) (liked bool, likeCount int64, err error)
	ToggleNoteBookmark(ctx context.Context, noteID, userID uint) (bookmarked bool, err error)
	CountNoteLikes(ctx context.Context, noteID uint) (int64, error)
	HasNoteLike(ctx context.Context, noteID, userID uint) (bool, error)
	HasNoteBookmark(ctx context.Context, noteID, userID uint) (bool, error)
}
