package services

import (
	"pharmacademy/internal/models"
	"pharmacademy/internal/repositories"
)

type AdminUserService interface {
	GetAdminByID(id string) (*models.AdminUser, error)
}

type adminUserService struct {
	repo repositories.AdminUserRepository
}

func NewAdminUserService(repo repositories.AdminUserRepository) AdminUserService {
	return &adminUserService{repo: repo}
}

func (s *adminUserService) GetAdminByID(id string) (*models.AdminUser, error) {
	a, err := s.repo.GetByID(id)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return a, nil
}
