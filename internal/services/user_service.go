package services

import (
	"pharmacademy/internal/models"
	"pharmacademy/internal/repositories"
)

type UserService interface {
	GetUserByID(id int) (*models.User, error)
}

type userService struct {
	repo repositories.UserRepository
}

func NewUserService(repo repositories.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetUserByID(id int) (*models.User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
