package service

import (
	"context"

	"vsm-server/internal/apperr"
	"vsm-server/internal/domain"
	"vsm-server/pkg/utils"
)

type PostService struct {
	posts domain.PostRepository
}

func NewPostService(posts domain.PostRepository) *PostService { return &PostService{posts: posts} }

type PostInput struct {
	Title    string
	Excerpt  string
	Content  string
	Cover    string
	Category string
	Featured *bool
	Status   domain.PostStatus
	Tags     string
}

func (s *PostService) Create(ctx context.Context, in PostInput, authorID string) (*domain.Post, error) {
	p := &domain.Post{
		ID:       utils.NewID(),
		Title:    in.Title,
		Excerpt:  in.Excerpt,
		Content:  in.Content,
		Cover:    in.Cover,
		AuthorID: authorID,
		Category: in.Category,
		Status:   in.Status,
		Tags:     in.Tags,
	}
	if p.Status == "" {
		p.Status = domain.PostDraft
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, apperr.Internal("create post failed", err)
	}
	return p, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("lookup post failed", err)
	}
	if p == nil {
		return nil, apperr.NotFound("post not found")
	}
	return p, nil
}

// GetPublic 公开读：草稿视为不存在，命中则计一次浏览
func (s *PostService) GetPublic(ctx context.Context, id string) (*domain.Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.PostPublished {
		return nil, apperr.NotFound("post not found")
	}
	if err := s.posts.IncrementViews(ctx, id); err == nil {
		p.Views++
	}
	return p, nil
}

func (s *PostService) List(ctx context.Context, f domain.PostListFilter) ([]domain.Post, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	return s.posts.List(ctx, f)
}

func (s *PostService) Update(ctx context.Context, id string, in PostInput) (*domain.Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != "" {
		p.Title = in.Title
	}
	if in.Excerpt != "" {
		p.Excerpt = in.Excerpt
	}
	if in.Content != "" {
		p.Content = in.Content
	}
	if in.Cover != "" {
		p.Cover = in.Cover
	}
	if in.Category != "" {
		p.Category = in.Category
	}
	if in.Status != "" {
		p.Status = in.Status
	}
	if in.Tags != "" {
		p.Tags = in.Tags
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if err := s.posts.Update(ctx, p); err != nil {
		return nil, apperr.Internal("update post failed", err)
	}
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, id string) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return apperr.NotFound("post not found")
		}
		return apperr.Internal("delete post failed", err)
	}
	return nil
}
