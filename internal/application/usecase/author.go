package usecase

import (
	"context"
	"io"
	"iter"
	"time"

	"github.com/rs/xid"

	"blogd/internal/domain/collection"
	"blogd/internal/domain/dto"
	"blogd/internal/domain/model"
	"blogd/internal/domain/repository/imagehost"
	"blogd/internal/domain/repository/store"
	"blogd/pkg/logger"
)

// AuthorColumns is the header of the author CSV export.
var AuthorColumns = []string{"id", "name", "surname", "email", "birthDate", "avatar"}

type AuthorService struct {
	repo   store.Repository[model.Author]
	images images
	now    func() time.Time
}

func NewAuthorService(repo store.Repository[model.Author], uploader imagehost.Uploader,
	remover imagehost.Remover,
) *AuthorService {
	return &AuthorService{
		repo:   repo,
		images: images{uploader: uploader, remover: remover},
		now:    time.Now,
	}
}

// List returns authors whose name contains name, ignoring case.
func (s *AuthorService) List(ctx context.Context, name string) ([]model.Author, error) {
	authors, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return collection.Filter(authors, func(a model.Author) bool {
		return collection.MatchesFold(a.Name, name)
	}), nil
}

func (s *AuthorService) Get(ctx context.Context, id string) (model.Author, error) {
	return s.repo.Get(ctx, id)
}

func (s *AuthorService) Create(ctx context.Context, in dto.AuthorInput) (model.Author, error) {
	author := model.Author{
		ID:        xid.New().String(),
		Name:      in.Name,
		Surname:   in.Surname,
		Email:     in.Email,
		BirthDate: in.BirthDate,
		Avatar:    in.Avatar,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.Insert(ctx, author); err != nil {
		return model.Author{}, err
	}

	logger.Info("author created", "id", author.ID)

	return author, nil
}

func (s *AuthorService) Update(ctx context.Context, id string, patch dto.AuthorPatch) (model.Author, error) {
	return s.repo.Update(ctx, id, func(a model.Author) (model.Author, error) {
		patch.Name.Apply(&a.Name)
		patch.Surname.Apply(&a.Surname)
		patch.Email.Apply(&a.Email)
		patch.BirthDate.Apply(&a.BirthDate)
		patch.Avatar.Apply(&a.Avatar)

		return a, nil
	})
}

func (s *AuthorService) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.images.discard(ctx, removed.Avatar)
	logger.Info("author deleted", "id", id)

	return nil
}

// AttachAvatar uploads body and makes it the author's avatar.
func (s *AuthorService) AttachAvatar(ctx context.Context, id string, body io.Reader, size int64,
) (model.Author, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return model.Author{}, err
	}

	location, err := s.images.upload(ctx, body, size, avatarFolder, "avatar")
	if err != nil {
		return model.Author{}, err
	}

	var previous string
	updated, err := s.repo.Update(ctx, id, func(a model.Author) (model.Author, error) {
		previous, a.Avatar = a.Avatar, location

		return a, nil
	})
	s.images.settle(ctx, location, previous, err)
	if err != nil {
		return model.Author{}, err
	}

	return updated, nil
}

// ExportRows yields one CSV row per stored author, in AuthorColumns order.
func (s *AuthorService) ExportRows(ctx context.Context) iter.Seq2[[]string, error] {
	return mapRows(s.repo.Stream(ctx), func(a model.Author) []string {
		return []string{a.ID, a.Name, a.Surname, a.Email, a.BirthDate, a.Avatar}
	})
}
