package service

import (
	"strings"

	"vsm-server/internal/apperr"
	"vsm-server/internal/core/auth"
	"vsm-server/internal/domain"
	"vsm-server/pkg/utils"
)

// Actor 当前调用者（来自 JWT claims），nil 代表自助注册
type Actor struct {
	ID   string
	Role domain.Role
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string // 只有 ADMIN 代建账号时才允许填
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type AuthService struct {
	users       domain.UserRepository
	jwter       *auth.JWTer
	emailDomain string
}

func NewAuthService(users domain.UserRepository, jwter *auth.JWTer, emailDomain string) *AuthService {
	return &AuthService{users: users, jwter: jwter, emailDomain: emailDomain}
}

func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	u, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, apperr.Internal("lookup user failed", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, apperr.Unauthorized("invalid credentials")
	}
	if !u.IsActive {
		return nil, apperr.Unauthorized("account is deactivated")
	}
	return s.issue(u)
}

// Register 账号创建策略：
//   - 邮箱必须属于组织域
//   - 自助注册忽略传入角色，一律 USER
//   - EDITOR 不允许建号；非 ADMIN 指定角色一律拒绝
//   - ADMIN 可指定任意合法角色
func (s *AuthService) Register(in RegisterInput, acting *Actor) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if !strings.HasSuffix(email, s.emailDomain) {
		return nil, apperr.Unauthorized("email must belong to " + s.emailDomain)
	}

	role := domain.RoleUser
	switch {
	case acting == nil:
		// 自助注册：传了 role 也不认
	case acting.Role == domain.RoleEditor:
		return nil, apperr.Forbidden("editors cannot create accounts")
	case acting.Role == domain.RoleAdmin:
		if in.Role != "" {
			r, ok := domain.ParseRole(in.Role)
			if !ok {
				return nil, apperr.BadRequest("unknown role " + in.Role)
			}
			role = r
		}
	default:
		return nil, apperr.Unauthorized("not allowed to create accounts")
	}

	existing, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, apperr.Internal("lookup user failed", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("email already registered")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		if at := strings.IndexByte(email, '@'); at > 0 {
			name = email[:at]
		}
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: utils.HashPassword(in.Password),
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(u); err != nil {
		// 并发兜底：唯一索引冲突按 409 处理
		if isDupKey(err) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, apperr.Internal("create user failed", err)
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *domain.User) (*AuthResult, error) {
	tok, err := s.jwter.Issue(u.ID, string(u.Role))
	if err != nil || tok == "" {
		return nil, apperr.Internal("issue token failed", err)
	}
	return &AuthResult{Token: tok, User: u}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
