package service

import (
	"context"
	"strings"

	"frozenshop/internal/dto"
	"frozenshop/internal/model"
	"frozenshop/internal/repository"
)

type ContactService interface {
	Submit(ctx context.Context, req dto.ContactRequest) (*dto.ContactMessageResponse, error)
	List(ctx context.Context, filter dto.ContactFilter) (*dto.ContactListResponse, error)
	Get(ctx context.Context, id uint) (*dto.ContactMessageResponse, error)
	MarkRead(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

type contactService struct {
	repo repository.ContactRepository
}

func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactService{repo: repo}
}

func (s *contactService) Submit(ctx context.Context, req dto.ContactRequest) (*dto.ContactMessageResponse, error) {
	m := &model.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strPtr(strings.TrimSpace(req.Phone)),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
		IsRead:  false,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	resp := contactToResponse(m)
	return &resp, nil
}

func (s *contactService) List(ctx context.Context, filter dto.ContactFilter) (*dto.ContactListResponse, error) {
	filter.Normalize()
	msgs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ContactMessageResponse, 0, len(msgs))
	for i := range msgs {
		data = append(data, contactToResponse(&msgs[i]))
	}
	return &dto.ContactListResponse{
		Data:     data,
		PageMeta: dto.NewPageMeta(total, filter.Page, filter.Limit),
	}, nil
}

func (s *contactService) Get(ctx context.Context, id uint) (*dto.ContactMessageResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "message")
	}
	resp := contactToResponse(m)
	return &resp, nil
}

func (s *contactService) MarkRead(ctx context.Context, id uint) error {
	return notFound(s.repo.MarkRead(ctx, id), "message")
}

func (s *contactService) Delete(ctx context.Context, id uint) error {
	return notFound(s.repo.Delete(ctx, id), "message")
}
