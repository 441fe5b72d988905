package service

import (
	"context"
	"fmt"
	"teanote/internal/entity"
	"teanote/internal/model"

	"github.com/sirupsen/logrus"
)

// SocialService 点赞/收藏服务。切换语义：行存在即点赞/收藏状态本身，
// 一次调用翻转一次。事务与唯一索引的并发处理在仓库层实现。
type SocialService struct {
	repo model.Repository
}

// NewSocialService 创建社交服务实例
func NewSocialService(repo model.Repository) *SocialService {
	return &SocialService{repo: repo}
}

// ToggleLike 翻转点赞状态，返回新状态和同一事务内读到的点赞数。
func (s *SocialService) ToggleLike(ctx context.Context, noteID, userID uint) (*entity.ToggleLikeResponse, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	liked, count, err := s.repo.ToggleNoteLike(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"note_id":    noteID,
		"user_id":    userID,
		"liked":      liked,
		"like_count": count,
	}).Debug("note like toggled")

	return &entity.ToggleLikeResponse{Liked: liked, LikeCount: count}, nil
}

// ToggleBookmark 翻转收藏状态，只返回新状态，不维护收藏计数。
func (s *SocialService) ToggleBookmark(ctx context.Context, noteID, userID uint) (*entity.ToggleBookmarkResponse, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	bookmarked, err := s.repo.ToggleNoteBookmark(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"note_id":    noteID,
		"user_id":    userID,
		"bookmarked": bookmarked,
	}).Debug("note bookmark toggled")

	return &entity.ToggleBookmarkResponse{Bookmarked: bookmarked}, nil
}
