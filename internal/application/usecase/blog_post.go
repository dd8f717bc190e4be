package usecase

import (
	"context"
	"io"
	"iter"
	"time"

	"github.com/rs/xid"

	"blogd/internal/application/usecase/abstraction"
	"blogd/internal/domain/collection"
	"blogd/internal/domain/dto"
	"blogd/internal/domain/model"
	"blogd/internal/domain/repository/imagehost"
	"blogd/internal/domain/repository/store"
	"blogd/pkg/logger"
)

// BlogPostColumns is the header of the blog post CSV export.
var BlogPostColumns = []string{"id", "author", "category", "title", "content", "cover", "createdAt"}

type BlogPostService struct {
	repo       store.Repository[model.BlogPost]
	images     images
	dispatcher abstraction.Dispatcher
	now        func() time.Time
}

func NewBlogPostService(repo store.Repository[model.BlogPost], uploader imagehost.Uploader,
	remover imagehost.Remover, dispatcher abstraction.Dispatcher,
) *BlogPostService {
	return &BlogPostService{
		repo:       repo,
		images:     images{uploader: uploader, remover: remover},
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// List returns posts whose title contains title, ignoring case.
func (s *BlogPostService) List(ctx context.Context, title string) ([]model.BlogPost, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return collection.Filter(posts, func(p model.BlogPost) bool {
		return collection.MatchesFold(p.Title, title)
	}), nil
}

func (s *BlogPostService) Get(ctx context.Context, id string) (model.BlogPost, error) {
	return s.repo.Get(ctx, id)
}

func (s *BlogPostService) Create(ctx context.Context, in dto.BlogPostInput,
) (model.BlogPost, model.DeliveryReceipt, error) {
	post := model.BlogPost{
		ID:        xid.New().String(),
		Category:  in.Category,
		Title:     in.Title,
		Content:   in.Content,
		Cover:     in.Cover,
		CreatedAt: s.now().UTC(),
	}
	if in.Author != nil {
		post.Author = authorRef(*in.Author)
	}

	if err := s.repo.Insert(ctx, post); err != nil {
		return model.BlogPost{}, model.DeliveryReceipt{}, err
	}

	logger.Info("blog post created", "id", post.ID)

	if s.dispatcher == nil {
		return post, model.DeliveryReceipt{Status: model.DeliverySkipped}, nil
	}

	return post, s.dispatcher.Dispatch(ctx, post), nil
}

func (s *BlogPostService) Update(ctx context.Context, id string, patch dto.BlogPostPatch,
) (model.BlogPost, error) {
	return s.repo.Update(ctx, id, func(p model.BlogPost) (model.BlogPost, error) {
		if patch.Author.Set && !patch.Author.Null {
			p.Author = authorRef(patch.Author.Value)
		}
		patch.Category.Apply(&p.Category)
		patch.Title.Apply(&p.Title)
		patch.Content.Apply(&p.Content)
		patch.Cover.Apply(&p.Cover)

		return p, nil
	})
}

func (s *BlogPostService) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.images.discard(ctx, removed.Cover)
	logger.Info("blog post deleted", "id", id)

	return nil
}

// AttachCover uploads body and makes it the post's cover.
func (s *BlogPostService) AttachCover(ctx context.Context, id string, body io.Reader, size int64,
) (model.BlogPost, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return model.BlogPost{}, err
	}

	location, err := s.images.upload(ctx, body, size, coverFolder, "cover")
	if err != nil {
		return model.BlogPost{}, err
	}

	var previous string
	updated, err := s.repo.Update(ctx, id, func(p model.BlogPost) (model.BlogPost, error) {
		previous, p.Cover = p.Cover, location

		return p, nil
	})
	s.images.settle(ctx, location, previous, err)
	if err != nil {
		return model.BlogPost{}, err
	}

	return updated, nil
}

// ExportRows yields one CSV row per stored post, in BlogPostColumns order.
func (s *BlogPostService) ExportRows(ctx context.Context) iter.Seq2[[]string, error] {
	return mapRows(s.repo.Stream(ctx), func(p model.BlogPost) []string {
		return []string{
			p.ID, p.Author.Name, p.Category, p.Title, p.Content, p.Cover,
			p.CreatedAt.UTC().Format(time.RFC3339),
		}
	})
}

func authorRef(in dto.AuthorRefInput) model.AuthorRef {
	return model.AuthorRef{
		ID:     in.ID,
		Name:   in.Name,
		Email:  in.Email,
		Avatar: in.Avatar,
	}
}
