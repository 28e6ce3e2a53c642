package service

import (
	"strings"

	"vsm-server/internal/apperr"
	"vsm-server/internal/domain"
	"vsm-server/pkg/utils"
)

type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService { return &UserService{users: users} }

func (s *UserService) Get(id string) (*domain.User, error) {
	u, err := s.users.FindByID(id)
	if err != nil {
		return nil, apperr.Internal("lookup user failed", err)
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

func (s *UserService) List(f domain.UserListFilter) ([]domain.User, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	return s.users.List(f)
}

type ProfileUpdate struct {
	Name   string
	Avatar string
}

func (s *UserService) UpdateProfile(id string, in ProfileUpdate) (*domain.User, error) {
	u, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if n := strings.TrimSpace(in.Name); n != "" {
		u.Name = n
	}
	if in.Avatar != "" {
		u.Avatar = in.Avatar
	}
	if err := s.users.Update(u); err != nil {
		return nil, apperr.Internal("update user failed", err)
	}
	return u, nil
}

func (s *UserService) ChangePassword(id, oldPw, newPw string) error {
	u, err := s.Get(id)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(oldPw, u.PasswordHash) {
		return apperr.Unauthorized("current password is incorrect")
	}
	u.PasswordHash = utils.HashPassword(newPw)
	if err := s.users.Update(u); err != nil {
		return apperr.Internal("update password failed", err)
	}
	return nil
}

type AdminUserUpdate struct {
	Name     string
	Role     string
	IsActive *bool
}

func (s *UserService) AdminUpdate(id string, in AdminUserUpdate) (*domain.User, error) {
	u, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if n := strings.TrimSpace(in.Name); n != "" {
		u.Name = n
	}
	if in.Role != "" {
		r, ok := domain.ParseRole(in.Role)
		if !ok {
			return nil, apperr.BadRequest("unknown role " + in.Role)
		}
		u.Role = r
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	if err := s.users.Update(u); err != nil {
		return nil, apperr.Internal("update user failed", err)
	}
	return u, nil
}

func (s *UserService) Deactivate(id string) error {
	if err := s.users.Deactivate(id); err != nil {
		if isNotFound(err) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal("deactivate user failed", err)
	}
	return nil
}

func (s *UserService) HardDelete(id string) error {
	if err := s.users.HardDelete(id); err != nil {
		if isNotFound(err) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal("delete user failed", err)
	}
	return nil
}
