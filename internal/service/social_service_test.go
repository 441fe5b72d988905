package service

import (
	"context"
	"errors"
	"testing"

	"teanote/internal/entity"
)

func TestToggleLikeIdempotentRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	tea := seedTea(t, repo)
	schema := seedSchema(t, repo)
	notes := NewNoteService(repo, nil)
	svc := NewSocialService(repo)
	ctx := context.Background()

	view, err := notes.CreateNote(ctx, 1, entity.NoteCreateRequest{TeaID: tea.ID, SchemaID: schema.ID})
	if err != nil {
		t.Fatalf("failed to create note: %v", err)
	}

	// 连续切换在两个状态间往返，计数不会漂移
	steps := []struct {
		wantLiked bool
		wantCount int64
	}{
		{true, 1},
		{false, 0},
		{true, 1},
		{false, 0},
	}
	for i, step := range steps {
		resp, err := svc.ToggleLike(ctx, view.ID, 2)
		if err != nil {
			t.Fatalf("toggle %d failed: %v", i, err)
		}
		if resp.Liked != step.wantLiked {
			t.Errorf("toggle %d: expected liked=%v, got %v", i, step.wantLiked, resp.Liked)
		}
		if resp.LikeCount != step.wantCount {
			t.Errorf("toggle %d: expected like count %d, got %d", i, step.wantCount, resp.LikeCount)
		}
	}
}

func TestToggleLikeCountsDistinctUsers(t *testing.T) {
	repo := newTestRepo(t)
	tea := seedTea(t, repo)
	schema := seedSchema(t, repo)
	notes := NewNoteService(repo, nil)
	svc := NewSocialService(repo)
	ctx := context.Background()

	view, err := notes.CreateNote(ctx, 1, entity.NoteCreateRequest{TeaID: tea.ID, SchemaID: schema.ID})
	if err != nil {
		t.Fatalf("failed to create note: %v", err)
	}

	for userID := uint(2); userID <= 4; userID++ {
		if _, err := svc.ToggleLike(ctx, view.ID, userID); err != nil {
			t.Fatalf("toggle by user %d failed: %v", userID, err)
		}
	}

	resp, err := svc.ToggleLike(ctx, view.ID, 2)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if resp.Liked {
		t.Error("expected user 2 unliked after second toggle")
	}
	if resp.LikeCount != 2 {
		t.Errorf("expected like count 2, got %d", resp.LikeCount)
	}

	hydrated, err := notes.GetNote(ctx, view.ID, 3)
	if err != nil {
		t.Fatalf("failed to load note: %v", err)
	}
	if !hydrated.IsLiked {
		t.Error("expected user 3 to see is_liked=true")
	}
	if hydrated.LikeCount != 2 {
		t.Errorf("expected like count 2 in view, got %d", hydrated.LikeCount)
	}
}

func TestToggleLikeVisibility(t *testing.T) {
	repo := newTestRepo(t)
	tea := seedTea(t, repo)
	schema := seedSchema(t, repo)
	notes := NewNoteService(repo, nil)
	svc := NewSocialService(repo)
	ctx := context.Background()

	private, err := notes.CreateNote(ctx, 1, entity.NoteCreateRequest{
		TeaID:    tea.ID,
		SchemaID: schema.ID,
		IsPublic: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("failed to create note: %v", err)
	}

	if _, err := svc.ToggleLike(ctx, private.ID, 2); !errors.Is(err, entity.ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-author on private note, got %v", err)
	}

	// 作者可以给自己的私有笔记点赞
	resp, err := svc.ToggleLike(ctx, private.ID, 1)
	if err != nil {
		t.Fatalf("author toggle failed: %v", err)
	}
	if !resp.Liked || resp.LikeCount != 1 {
		t.Errorf("expected (liked=true, count=1), got (%v, %d)", resp.Liked, resp.LikeCount)
	}

	if _, err := svc.ToggleLike(ctx, 9999, 1); !errors.Is(err, entity.ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestToggleBookmark(t *testing.T) {
	repo := newTestRepo(t)
	tea := seedTea(t, repo)
	schema := seedSchema(t, repo)
	notes := NewNoteService(repo, nil)
	svc := NewSocialService(repo)
	ctx := context.Background()

	view, err := notes.CreateNote(ctx, 1, entity.NoteCreateRequest{TeaID: tea.ID, SchemaID: schema.ID})
	if err != nil {
		t.Fatalf("failed to create note: %v", err)
	}

	resp, err := svc.ToggleBookmark(ctx, view.ID, 2)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !resp.Bookmarked {
		t.Error("expected bookmarked=true after first toggle")
	}

	hydrated, err := notes.GetNote(ctx, view.ID, 2)
	if err != nil {
		t.Fatalf("failed to load note: %v", err)
	}
	if !hydrated.IsBookmarked {
		t.Error("expected is_bookmarked=true in view")
	}

	// 收藏列表按收藏者过滤
	bookmarked, _, err := notes.ListNotes(ctx, &entity.NoteQuery{BookmarkedByViewer: true, ViewerID: 2})
	if err != nil {
		t.Fatalf("failed to list bookmarked notes: %v", err)
	}
	if len(bookmarked) != 1 {
		t.Errorf("expected 1 bookmarked note, got %d", len(bookmarked))
	}

	resp, err = svc.ToggleBookmark(ctx, view.ID, 2)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if resp.Bookmarked {
		t.Error("expected bookmarked=false after second toggle")
	}

	if _, err := svc.ToggleBookmark(ctx, 9999, 2); !errors.Is(err, entity.ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestToggleBookmarkVisibility(t *testing.T) {
	repo := newTestRepo(t)
	tea := seedTea(t, repo)
	schema := seedSchema(t, repo)
	notes := NewNoteService(repo, nil)
	svc := NewSocialService(repo)
	ctx := context.Background()

	private, err := notes.CreateNote(ctx, 1, entity.NoteCreateRequest{
		TeaID:    tea.ID,
		SchemaID: schema.ID,
		IsPublic: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("failed to create note: %v", err)
	}

	if _, err := svc.ToggleBookmark(ctx, private.ID, 2); !errors.Is(err, entity.ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-author on private note, got %v", err)
	}
}
