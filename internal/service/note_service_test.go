package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"teanote/internal/entity"
	sqlrepo "teanote/internal/model/sql"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *sqlrepo.GormRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&entity.DbTea{},
		&entity.DbRatingSchema{},
		&entity.DbRatingAxis{},
		&entity.DbNote{},
		&entity.DbNoteAxisValue{},
		&entity.DbTag{},
		&entity.DbNoteTag{},
		&entity.DbNoteLike{},
		&entity.DbNoteBookmark{},
	)
	if err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	return sqlrepo.NewGormRepository(db)
}

func seedTea(t *testing.T, repo *sqlrepo.GormRepository) *entity.DbTea {
	t.Helper()
	tea := &entity.DbTea{Name: "凤凰单丛", Brand: "八马", TeaType: "oolong"}
	if err := repo.CreateTea(context.Background(), tea); err != nil {
		t.Fatalf("failed to seed tea: %v", err)
	}
	return tea
}

func seedSchema(t *testing.T, repo *sqlrepo.GormRepository) *entity.DbRatingSchema {
	t.Helper()
	schema := &entity.DbRatingSchema{
		Code:        "classic",
		Version:     1,
		Name:        "经典品鉴",
		MinOverall:  0,
		MaxOverall:  5,
		StepOverall: 0.5,
		IsActive:    true,
		Axes: []entity.DbRatingAxis{
			{Code: "aroma", Name: "香气", MinValue: 1, MaxValue: 5, StepValue: 1, DisplayOrder: 1, IsRequired: true},
			{Code: "sweetness", Name: "回甘", MinValue: 1, MaxValue: 5, StepValue: 1, DisplayOrder: 2},
		},
	}
	if err := repo.CreateSchema(context.Background(), schema); err != nil {
		t.Fatalf("failed to seed schema: %v", err)
	}
	return schema
}

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestCreateNoteValidatesAxisValues(t *testing.T) {
	repo := newTestRepo(t)
	tea := seedTea(t, repo)
	schema := seedSchema(t, repo)

	otherSchema := &entity.DbRatingSchema{
		Code: "classic", Version: 2, Name: "经典品鉴 v2", MaxOverall: 5, StepOverall: 0.5, IsActive: true,
		Axes: []entity.DbRatingAxis{
			{Code: "aroma", Name: "香气", MinValue: 1, MaxValue: 10, StepValue: 1, DisplayOrder: 1},
		},
	}
	if err := repo.CreateSchema(context.Background(), otherSchema); err != nil {
		t.Fatalf("failed to seed second schema: %v", err)
	}

	svc := NewNoteService(repo, nil)

	tests := []struct {
		name    string
		values  []entity.AxisValueInput
		wantErr error
	}{
		{
			name:    "不存在的维度",
			values:  []entity.AxisValueInput{{AxisID: 9999, Value: 3}},
			wantErr: entity.ErrInvalidAxisIDs,
		},
		{
			name:    "维度属于其他模板",
			values:  []entity.AxisValueInput{{AxisID: otherSchema.Axes[0].ID, Value: 3}},
			wantErr: entity.ErrAxisSchemaMismatch,
		},
		{
			name:    "数值超出维度范围",
			values:  []entity.AxisValueInput{{AxisID: schema.Axes[0].ID, Value: 6}},
			wantErr: entity.ErrAxisValueOutOfRange,
		},
		{
			name:    "数值低于维度下限",
			values:  []entity.AxisValueInput{{AxisID: schema.Axes[0].ID, Value: 0.5}},
			wantErr: entity.ErrAxisValueOutOfRange,
		},
		{
			name: "合法评分",
			values: []entity.AxisValueInput{
				{AxisID: schema.Axes[0].ID, Value: 4},
				{AxisID: schema.Axes[1].ID, Value: 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := svc.CreateNote(context.Background(), 1, entity.NoteCreateRequest{
				TeaID:         tea.ID,
				SchemaID:      schema.ID,
				OverallRating: floatPtr(4),
				AxisValues:    tt.values,
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(view.AxisValues) != len(tt.values) {
				t.Errorf("expected %d axis values, got %d", len(tt.values), len(view.AxisValues))
			}
		})
	}

	// 被拒绝的创建不能留下半成品笔记
	notes, _, err := repo.ListNotes(context.Background(), &entity.NoteQuery{TeaID: tea.ID, ViewerID: 1})
	if err != nil {
		t.Fatalf("failed to list notes: %v", err)
	}
	if len(notes) != 1 {
		t.Errorf("expected exactly 1 persisted note, got %d", len(notes))
	}
}

func TestCreateNoteDuplicateAxisTakesLastValue(t *testing.T) {
	repo := newTestRepo(t)
	tea := seedTea(t, repo)
	schema := seedSchema(t, repo)
	svc := NewNoteService(repo, nil)

	view, err := svc.CreateNote(context.Background(), 1, entity.NoteCreateRequest{
		TeaID:    tea.ID,
		SchemaID: schema.ID,
		AxisValues: []entity.AxisValueInput{
			{AxisID: schema.Axes[0].ID, Value: 2},
			{AxisID: schema.Axes[0].ID, Value: 4},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.AxisValues) != 1 {
		t.Fatalf("expected 1 axis value, got %d", len(view.AxisValues))
	}
	if view.AxisValues[0].Value != 4 {
		t.Errorf("expected last submitted value 4, got %g", view.AxisValues[0].Value)
	}
}

func TestUpdateNoteRejectedKeepsExistingAxisValues(t *testing.T) {
	repo := newTestRepo(t)
	tea := seedTea(t, repo)
	schema := seedSchema(t, repo)
	svc := NewNoteService(repo, nil)

	view, err := svc.CreateNote(context.Background(), 1, entity.NoteCreateRequest{
		TeaID:    tea.ID,
		SchemaID: schema.ID,
		AxisValues: []entity.AxisValueInput{
			{AxisID: schema.Axes[0].ID, Value: 4},
			{AxisID: schema.Axes[1].ID, Value: 3},
		},
	})
	if err != nil {
		t.Fatalf("failed to create note: %v", err)
	}

	badValues := []entity.AxisValueInput{{AxisID: schema.Axes[0].ID, Value: 99}}
	_, err = svc.UpdateNote(context.Background(), view.ID, 1, entity.NoteUpdateRequest{
		AxisValues: &badValues,
	})
	if !errors.Is(err, entity.ErrAxisValueOutOfRange) {
		t.Fatalf("expected out-of-range error, got %v", err)
	}

	// 校验失败的更新不得清掉已有维度评分
	values, err := repo.ListNoteAxisValues(context.Background(), view.ID)
	if err != nil {
		t.Fatalf("failed to list axis values: %v", err)
	}
	if len(values) != 2 {
		t.Errorf("expected existing 2 axis values untouched, got %d", len(values))
	}
}

func TestUpdateNoteClearsAxisValuesWithEmptyArray(t *testing.T) {
	repo := newTestRepo(t)
	tea := seedTea(t, repo)
	schema := seedSchema(t, repo)
	svc := NewNoteService(repo, nil)

	view, err := svc.CreateNote(context.Background(), 1, entity.NoteCreateRequest{
		TeaID:      tea.ID,
		SchemaID:   schema.ID,
		AxisValues: []entity.AxisValueInput{{AxisID: schema.Axes[0].ID, Value: 4}},
	})
	if err != nil {
		t.Fatalf("failed to create note: %v", err)
	}

	// 不提交 AxisValues 时原值保持不变
	memo := "回甘持久"
	updated, err := svc.UpdateNote(context.Background(), view.ID, 1, entity.NoteUpdateRequest{Memo: &memo})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.AxisValues) != 1 {
		t.Fatalf("expected axis values untouched, got %d", len(updated.AxisValues))
	}

	// 提交空数组时清空
	empty := []entity.AxisValueInput{}
	updated, err = svc.UpdateNote(context.Background(), view.ID, 1, entity.NoteUpdateRequest{AxisValues: &empty})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.AxisValues) != 0 {
		t.Errorf("expected axis values cleared, got %d", len(updated.AxisValues))
	}
}

func TestTeaRatingAggregate(t *testing.T) {
	repo := newTestRepo(t)
	tea := seedTea(t, repo)
	schema := seedSchema(t, repo)
	svc := NewNoteService(repo, nil)
	ctx := context.Background()

	mustCreate := func(rating *float64, included bool) *entity.NoteView {
		t.Helper()
		view, err := svc.CreateNote(ctx, 1, entity.NoteCreateRequest{
			TeaID:            tea.ID,
			SchemaID:         schema.ID,
			OverallRating:    rating,
			IsRatingIncluded: boolPtr(included),
		})
		if err != nil {
			t.Fatalf("failed to create note: %v", err)
		}
		return view
	}

	mustCreate(floatPtr(4.0), true)
	excluded := mustCreate(floatPtr(5.0), false)
	mustCreate(floatPtr(3.0), true)
	mustCreate(nil, true) // 无总评分的笔记不参与聚合

	got, err := repo.GetTea(ctx, tea.ID)
	if err != nil {
		t.Fatalf("failed to load tea: %v", err)
	}
	if got.AverageRating != 3.5 {
		t.Errorf("expected average 3.5, got %g", got.AverageRating)
	}
	if got.ReviewCount != 2 {
		t.Errorf("expected review count 2, got %d", got.ReviewCount)
	}

	// 排除的笔记重新参评后进入聚合
	_, err = svc.UpdateNote(ctx, excluded.ID, 1, entity.NoteUpdateRequest{IsRatingIncluded: boolPtr(true)})
	if err != nil {
		t.Fatalf("failed to update note: %v", err)
	}
	got, err = repo.GetTea(ctx, tea.ID)
	if err != nil {
		t.Fatalf("failed to load tea: %v", err)
	}
	if got.AverageRating != 4.0 {
		t.Errorf("expected average 4.0, got %g", got.AverageRating)
	}
	if got.ReviewCount != 3 {
		t.Errorf("expected review count 3, got %d", got.ReviewCount)
	}
}

func TestTeaRatingAggregateEmptyResetsToZero(t *testing.T) {
	repo := newTestRepo(t)
	tea := seedTea(t, repo)
	schema := seedSchema(t, repo)
	svc := NewNoteService(repo, nil)
	ctx := context.Background()

	view, err := svc.CreateNote(ctx, 1, entity.NoteCreateRequest{
		TeaID:         tea.ID,
		SchemaID:      schema.ID,
		OverallRating: floatPtr(4.5),
	})
	if err != nil {
		t.Fatalf("failed to create note: %v", err)
	}

	got, err := repo.GetTea(ctx, tea.ID)
	if err != nil {
		t.Fatalf("failed to load tea: %v", err)
	}
	if got.AverageRating != 4.5 || got.ReviewCount != 1 {
		t.Fatalf("expected (4.5, 1), got (%g, %d)", got.AverageRating, got.ReviewCount)
	}

	if err := svc.DeleteNote(ctx, view.ID, 1); err != nil {
		t.Fatalf("failed to delete note: %v", err)
	}

	got, err = repo.GetTea(ctx, tea.ID)
	if err != nil {
		t.Fatalf("failed to load tea: %v", err)
	}
	if got.AverageRating != 0 {
		t.Errorf("expected average reset to 0, got %g", got.AverageRating)
	}
	if got.ReviewCount != 0 {
		t.Errorf("expected review count reset to 0, got %d", got.ReviewCount)
	}

	if _, err := svc.GetNote(ctx, view.ID, 1); !errors.Is(err, entity.ErrNoteNotFound) {
		t.Errorf("expected note gone after delete, got %v", err)
	}
}

func TestNoteTagSetSemantics(t *testing.T) {
	repo := newTestRepo(t)
	tea := seedTea(t, repo)
	schema := seedSchema(t, repo)
	svc := NewNoteService(repo, nil)
	ctx := context.Background()

	view, err := svc.CreateNote(ctx, 1, entity.NoteCreateRequest{
		TeaID:    tea.ID,
		SchemaID: schema.ID,
		Tags:     []string{"Spring", " spring ", "FLORAL"},
	})
	if err != nil {
		t.Fatalf("failed to create note: %v", err)
	}
	if len(view.Tags) != 2 {
		t.Fatalf("expected normalized tags [spring floral], got %v", view.Tags)
	}
	if view.Tags[0] != "floral" && view.Tags[1] != "floral" {
		t.Errorf("expected floral in tags, got %v", view.Tags)
	}

	// 不提交 Tags 时保持不变
	memo := "兰花香明显"
	updated, err := svc.UpdateNote(ctx, view.ID, 1, entity.NoteUpdateRequest{Memo: &memo})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Tags) != 2 {
		t.Errorf("expected tags untouched, got %v", updated.Tags)
	}

	// 空数组清空标签
	empty := []string{}
	updated, err = svc.UpdateNote(ctx, view.ID, 1, entity.NoteUpdateRequest{Tags: &empty})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Tags) != 0 {
		t.Errorf("expected tags cleared, got %v", updated.Tags)
	}
}

func TestGetNoteVisibility(t *testing.T) {
	repo := newTestRepo(t)
	tea := seedTea(t, repo)
	schema := seedSchema(t, repo)
	svc := NewNoteService(repo, nil)
	ctx := context.Background()

	private, err := svc.CreateNote(ctx, 1, entity.NoteCreateRequest{
		TeaID:    tea.ID,
		SchemaID: schema.ID,
		IsPublic: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("failed to create note: %v", err)
	}

	if _, err := svc.GetNote(ctx, private.ID, 1); err != nil {
		t.Errorf("author should read own private note, got %v", err)
	}
	if _, err := svc.GetNote(ctx, private.ID, 2); !errors.Is(err, entity.ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-author, got %v", err)
	}
	if _, err := svc.GetNote(ctx, private.ID, 0); !errors.Is(err, entity.ErrForbidden) {
		t.Errorf("expected ErrForbidden for anonymous viewer, got %v", err)
	}
	if _, err := svc.GetNote(ctx, 9999, 1); !errors.Is(err, entity.ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound, got %v", err)
	}

	// 非作者不能修改或删除
	memo := "x"
	if _, err := svc.UpdateNote(ctx, private.ID, 2, entity.NoteUpdateRequest{Memo: &memo}); !errors.Is(err, entity.ErrForbidden) {
		t.Errorf("expected ErrForbidden on update by non-author, got %v", err)
	}
	if err := svc.DeleteNote(ctx, private.ID, 2); !errors.Is(err, entity.ErrForbidden) {
		t.Errorf("expected ErrForbidden on delete by non-author, got %v", err)
	}
}

func TestListNotesVisibility(t *testing.T) {
	repo := newTestRepo(t)
	tea := seedTea(t, repo)
	schema := seedSchema(t, repo)
	svc := NewNoteService(repo, nil)
	ctx := context.Background()

	if _, err := svc.CreateNote(ctx, 1, entity.NoteCreateRequest{TeaID: tea.ID, SchemaID: schema.ID}); err != nil {
		t.Fatalf("failed to create note: %v", err)
	}
	if _, err := svc.CreateNote(ctx, 1, entity.NoteCreateRequest{TeaID: tea.ID, SchemaID: schema.ID, IsPublic: boolPtr(false)}); err != nil {
		t.Fatalf("failed to create note: %v", err)
	}

	// 匿名访客只能看到公开笔记
	views, _, err := svc.ListNotes(ctx, &entity.NoteQuery{TeaID: tea.ID})
	if err != nil {
		t.Fatalf("failed to list notes: %v", err)
	}
	if len(views) != 1 {
		t.Errorf("expected 1 note for anonymous viewer, got %d", len(views))
	}

	// 作者能看到自己的私有笔记
	views, _, err = svc.ListNotes(ctx, &entity.NoteQuery{TeaID: tea.ID, ViewerID: 1})
	if err != nil {
		t.Fatalf("failed to list notes: %v", err)
	}
	if len(views) != 2 {
		t.Errorf("expected 2 notes for author, got %d", len(views))
	}
}

func TestNormalizeTagNames(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"去空白与小写", []string{" Spring ", "FLORAL"}, []string{"spring", "floral"}},
		{"去重保序", []string{"a", "b", "A", "b"}, []string{"a", "b"}},
		{"跳过空串", []string{"", "  ", "tea"}, []string{"tea"}},
		{"空输入", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeTagNames(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("expected %v, got %v", tt.want, got)
					break
				}
			}
		})
	}
}

func TestRoundToTwoDecimals(t *testing.T) {
	tests := []struct {
		input float64
		want  float64
	}{
		{3.333333, 3.33},
		{3.666666, 3.67},
		{4.125, 4.13},
		{3.5, 3.5},
		{0, 0},
		{4.999, 5.0},
	}

	for _, tt := range tests {
		if got := roundToTwoDecimals(tt.input); got != tt.want {
			t.Errorf("roundToTwoDecimals(%g) = %g, want %g", tt.input, got, tt.want)
		}
	}
}
