package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"teanote/internal/entity"
	"teanote/internal/model"
	"teanote/internal/storage"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NoteService 品茶笔记服务，封装笔记生命周期相关的业务逻辑：
// 创建/更新/删除/查询，维度评分校验，以及茶品聚合评分的重算。
type NoteService struct {
	repo    model.Repository
	storage storage.Storage
}

// NewNoteService 创建笔记服务实例
func NewNoteService(repo model.Repository, store storage.Storage) *NoteService {
	return &NoteService{
		repo:    repo,
		storage: store,
	}
}

// CreateNote 创建一条品茶笔记
func (s *NoteService) CreateNote(ctx context.Context, userID uint, req entity.NoteCreateRequest) (*entity.NoteView, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	if _, err := s.repo.GetTea(ctx, req.TeaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrTeaNotFound
		}
		return nil, err
	}
	if _, err := s.repo.GetSchema(ctx, req.SchemaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrSchemaNotFound
		}
		return nil, err
	}

	// 校验先于任何写入：无效的维度评分不会留下半成品笔记
	var axisRows []entity.DbNoteAxisValue
	if len(req.AxisValues) > 0 {
		validated, err := s.validateAxisValues(ctx, req.SchemaID, req.AxisValues)
		if err != nil {
			return nil, err
		}
		axisRows = validated
	}

	isRatingIncluded := true
	if req.IsRatingIncluded != nil {
		isRatingIncluded = *req.IsRatingIncluded
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	note := entity.DbNote{
		TeaID:            req.TeaID,
		UserID:           userID,
		SchemaID:         req.SchemaID,
		OverallRating:    req.OverallRating,
		IsRatingIncluded: isRatingIncluded,
		Memo:             req.Memo,
		Images:           entity.StringArray(req.Images),
		IsPublic:         isPublic,
	}
	if err := s.repo.CreateNote(ctx, &note); err != nil {
		return nil, err
	}

	if len(axisRows) > 0 {
		if err := s.repo.ReplaceNoteAxisValues(ctx, note.ID, axisRows); err != nil {
			return nil, err
		}
	}
	if len(req.Tags) > 0 {
		if err := s.repo.SetNoteTags(ctx, note.ID, normalizeTagNames(req.Tags)); err != nil {
			return nil, err
		}
	}

	if err := s.recomputeTeaRating(ctx, note.TeaID); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"note_id": note.ID,
		"tea_id":  note.TeaID,
		"user_id": userID,
	}).Info("note created")

	return s.hydrateNote(ctx, &note, userID)
}

// UpdateNote 部分更新一条笔记，仅作者可操作。
// AxisValues/Tags 为空数组表示清空，nil 表示保持不变。
func (s *NoteService) UpdateNote(ctx context.Context, noteID, userID uint, patch entity.NoteUpdateRequest) (*entity.NoteView, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	note, err := s.loadOwnedNote(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}

	effectiveSchemaID := note.SchemaID
	if patch.SchemaID != nil && *patch.SchemaID != note.SchemaID {
		if _, err := s.repo.GetSchema(ctx, *patch.SchemaID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, entity.ErrSchemaNotFound
			}
			return nil, err
		}
		effectiveSchemaID = *patch.SchemaID
	}

	// 校验必须在删除旧维度评分之前完成，被拒绝的更新不得清掉已有数据
	var axisRows []entity.DbNoteAxisValue
	replaceAxisValues := patch.AxisValues != nil
	if replaceAxisValues && len(*patch.AxisValues) > 0 {
		validated, err := s.validateAxisValues(ctx, effectiveSchemaID, *patch.AxisValues)
		if err != nil {
			return nil, err
		}
		axisRows = validated
	}

	updates := entity.NoteUpdates{
		SchemaID:         patch.SchemaID,
		OverallRating:    patch.OverallRating,
		IsRatingIncluded: patch.IsRatingIncluded,
		Memo:             patch.Memo,
		IsPublic:         patch.IsPublic,
	}
	if patch.Images != nil {
		images := entity.StringArray(*patch.Images)
		updates.Images = &images
	}
	if !updates.IsEmpty() {
		if err := s.repo.UpdateNote(ctx, noteID, updates); err != nil {
			return nil, err
		}
	}

	if replaceAxisValues {
		if err := s.repo.ReplaceNoteAxisValues(ctx, noteID, axisRows); err != nil {
			return nil, err
		}
	}
	if patch.Tags != nil {
		if err := s.repo.SetNoteTags(ctx, noteID, normalizeTagNames(*patch.Tags)); err != nil {
			return nil, err
		}
	}

	// overall_rating 或 is_rating_included 可能变了，总是重算
	if err := s.recomputeTeaRating(ctx, note.TeaID); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	return s.hydrateNote(ctx, updated, userID)
}

// DeleteNote 删除一条笔记，仅作者可操作。关联的维度评分、标签、点赞、
// 收藏一并删除，之后重算茶品聚合评分。
func (s *NoteService) DeleteNote(ctx context.Context, noteID, userID uint) error {
	if s.repo == nil {
		return fmt.Errorf("repository not initialised")
	}

	note, err := s.loadOwnedNote(ctx, noteID, userID)
	if err != nil {
		return err
	}

	// 图片清理是尽力而为：清理失败只记日志，不能因此让删除失败
	s.cleanupNoteImages(ctx, note)

	if err := s.repo.DeleteNote(ctx, noteID); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"note_id": noteID,
		"tea_id":  note.TeaID,
		"user_id": userID,
	}).Info("note deleted")

	return s.recomputeTeaRating(ctx, note.TeaID)
}

// GetNote 按可见性规则读取一条笔记：公开笔记人人可读，私有笔记仅作者可读。
func (s *NoteService) GetNote(ctx context.Context, noteID, viewerID uint) (*entity.NoteView, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	note, err := s.repo.GetNote(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNoteNotFound
		}
		return nil, err
	}
	if !note.IsPublic && note.UserID != viewerID {
		return nil, entity.ErrForbidden
	}
	return s.hydrateNote(ctx, note, viewerID)
}

// ListNotes 按过滤条件分页列出可见的笔记。
func (s *NoteService) ListNotes(ctx context.Context, params *entity.NoteQuery) ([]entity.NoteView, *entity.Meta, error) {
	if s.repo == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	notes, meta, err := s.repo.ListNotes(ctx, params)
	if err != nil {
		return nil, nil, err
	}

	viewerID := uint(0)
	if params != nil {
		viewerID = params.ViewerID
	}

	views := make([]entity.NoteView, 0, len(notes))
	for i := range notes {
		view, err := s.hydrateNote(ctx, &notes[i], viewerID)
		if err != nil {
			return nil, nil, err
		}
		views = append(views, *view)
	}
	return views, meta, nil
}

// loadOwnedNote 加载笔记并检查请求者是否为作者。
func (s *NoteService) loadOwnedNote(ctx context.Context, noteID, userID uint) (*entity.DbNote, error) {
	note, err := s.repo.GetNote(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNoteNotFound
		}
		return nil, err
	}
	if note.UserID != userID {
		return nil, entity.ErrForbidden
	}
	return note, nil
}

// validateAxisValues 校验提交的维度评分：维度必须存在、必须属于目标模板、
// 数值必须落在维度声明的范围内。纯校验，没有任何副作用。
func (s *NoteService) validateAxisValues(ctx context.Context, schemaID uint, values []entity.AxisValueInput) ([]entity.DbNoteAxisValue, error) {
	// 同一维度重复提交时取最后一次的值
	orderedIDs := make([]uint, 0, len(values))
	valueByAxis := make(map[uint]float64, len(values))
	for _, v := range values {
		if _, ok := valueByAxis[v.AxisID]; !ok {
			orderedIDs = append(orderedIDs, v.AxisID)
		}
		valueByAxis[v.AxisID] = v.Value
	}

	axes, err := s.repo.FindAxesByIDs(ctx, orderedIDs)
	if err != nil {
		return nil, err
	}
	if len(axes) != len(orderedIDs) {
		return nil, entity.ErrInvalidAxisIDs
	}

	axisByID := make(map[uint]entity.DbRatingAxis, len(axes))
	for _, axis := range axes {
		if axis.SchemaID != schemaID {
			return nil, entity.ErrAxisSchemaMismatch
		}
		axisByID[axis.ID] = axis
	}

	rows := make([]entity.DbNoteAxisValue, 0, len(orderedIDs))
	for _, axisID := range orderedIDs {
		axis := axisByID[axisID]
		value := valueByAxis[axisID]
		if value < axis.MinValue || value > axis.MaxValue {
			return nil, fmt.Errorf("%w: axis %d value %g not in [%g, %g]",
				entity.ErrAxisValueOutOfRange, axisID, value, axis.MinValue, axis.MaxValue)
		}
		rows = append(rows, entity.DbNoteAxisValue{AxisID: axisID, Value: value})
	}
	return rows, nil
}

// recomputeTeaRating 从源数据全量重算茶品的平均评分与参评笔记数。
// 只统计 is_rating_included 且给出了总评分的笔记；没有符合条件的笔记时
// 归零。结果只通过 UpdateTeaRating 这个窄口写入。
func (s *NoteService) recomputeTeaRating(ctx context.Context, teaID uint) error {
	notes, err := s.repo.ListRatingIncludedNotes(ctx, teaID)
	if err != nil {
		return err
	}

	var sum float64
	var count int64
	for _, note := range notes {
		if note.OverallRating == nil {
			continue
		}
		sum += *note.OverallRating
		count++
	}

	avg := float64(0)
	if count > 0 {
		avg = roundToTwoDecimals(sum / float64(count))
	}

	if err := s.repo.UpdateTeaRating(ctx, teaID, avg, count); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"tea_id":         teaID,
		"average_rating": avg,
		"review_count":   count,
	}).Debug("tea rating recomputed")
	return nil
}

// hydrateNote 组装完整的笔记视图：维度评分、标签、点赞数以及请求者视角
// 的点赞/收藏状态（派生数据，读取时计算，不落库）。
func (s *NoteService) hydrateNote(ctx context.Context, note *entity.DbNote, viewerID uint) (*entity.NoteView, error) {
	values, err := s.repo.ListNoteAxisValues(ctx, note.ID)
	if err != nil {
		return nil, err
	}

	axisItems := make([]entity.NoteAxisValueItem, 0, len(values))
	if len(values) > 0 {
		axisIDs := make([]uint, 0, len(values))
		for _, v := range values {
			axisIDs = append(axisIDs, v.AxisID)
		}
		axes, err := s.repo.FindAxesByIDs(ctx, axisIDs)
		if err != nil {
			return nil, err
		}
		axisByID := make(map[uint]entity.DbRatingAxis, len(axes))
		for _, axis := range axes {
			axisByID[axis.ID] = axis
		}
		for _, v := range values {
			item := entity.NoteAxisValueItem{AxisID: v.AxisID, Value: v.Value}
			if axis, ok := axisByID[v.AxisID]; ok {
				item.AxisCode = axis.Code
				item.AxisName = axis.Name
			}
			axisItems = append(axisItems, item)
		}
	}

	tags, err := s.repo.ListNoteTagNames(ctx, note.ID)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}

	likeCount, err := s.repo.CountNoteLikes(ctx, note.ID)
	if err != nil {
		return nil, err
	}

	isLiked := false
	isBookmarked := false
	if viewerID > 0 {
		if isLiked, err = s.repo.HasNoteLike(ctx, note.ID, viewerID); err != nil {
			return nil, err
		}
		if isBookmarked, err = s.repo.HasNoteBookmark(ctx, note.ID, viewerID); err != nil {
			return nil, err
		}
	}

	return &entity.NoteView{
		ID:               note.ID,
		CreatedAt:        note.CreatedAt,
		UpdatedAt:        note.UpdatedAt,
		TeaID:            note.TeaID,
		UserID:           note.UserID,
		SchemaID:         note.SchemaID,
		OverallRating:    note.OverallRating,
		IsRatingIncluded: note.IsRatingIncluded,
		Memo:             note.Memo,
		Images:           note.Images.ToSlice(),
		IsPublic:         note.IsPublic,
		AxisValues:       axisItems,
		Tags:             tags,
		LikeCount:        likeCount,
		IsLiked:          isLiked,
		IsBookmarked:     isBookmarked,
	}, nil
}

// cleanupNoteImages 尽力删除笔记关联的存储图片，失败只记日志。
func (s *NoteService) cleanupNoteImages(ctx context.Context, note *entity.DbNote) {
	if s.storage == nil || note == nil || len(note.Images) == 0 {
		return
	}
	for _, image := range note.Images {
		trimmed := strings.TrimSpace(image)
		if trimmed == "" {
			continue
		}
		if err := s.storage.Delete(ctx, trimmed); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"note_id": note.ID,
				"image":   trimmed,
			}).Warn("failed to delete note image")
		}
	}
}

// normalizeTagNames 规范化标签名：去首尾空白、小写化、去重，保持首次出现顺序。
func normalizeTagNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

// roundToTwoDecimals 四舍五入到两位小数
func roundToTwoDecimals(value float64) float64 {
	return math.Round(value*100) / 100
}
