package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	coreauth "catalog-api/internal/core/auth"
	"catalog-api/internal/core/database"
	"catalog-api/internal/core/errs"
	"catalog-api/internal/domain"
	"catalog-api/internal/repo"
	"catalog-api/pkg/utils"
)

type RegisterInput struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=50,strongpassword"`
	FullName string `json:"fullName" binding:"required,min=1"`
}

type LoginInput struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=50"`
}

// Result 用户摘要 + token，角色与密码不对外
type Result struct {
	domain.UserSummary
	Token string `json:"token"`
}

var errBadCredentials = errs.Unauthorized("credentials are not valid")

type Service struct {
	users *repo.UserRepo
	jwt   *coreauth.JWTer
	log   *zap.Logger
}

func NewService(users *repo.UserRepo, j *coreauth.JWTer, log *zap.Logger) *Service {
	return &Service{users: users, jwt: j, log: log.Named("auth")}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Result, error) {
	hash := utils.HashPassword(in.Password)
	if hash == "" {
		return nil, errs.BadRequest("password is too long")
	}
	u := &domain.User{
		Email:    in.Email,
		FullName: in.FullName,
		Password: hash,
		Roles:    []string{domain.RoleUser},
		IsActive: true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if detail, ok := database.UniqueViolation(err); ok {
			return nil, errs.Conflict(detail, err)
		}
		s.log.Error("register failed", zap.Error(err))
		return nil, errs.Internal("unexpected error, check server logs", err)
	}
	s.log.Info("user registered", zap.String("uid", u.ID))
	return s.result(u)
}

// Login 邮箱不存在与密码错误返回同一个错误
func (s *Service) Login(ctx context.Context, in LoginInput) (*Result, error) {
	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		s.log.Error("login lookup failed", zap.Error(err))
		return nil, errs.Internal("unexpected error, check server logs", err)
	}
	if u == nil || !utils.CheckPassword(in.Password, u.Password) {
		return nil, errBadCredentials
	}
	if !u.IsActive {
		return nil, errs.Unauthorized("user is inactive, talk with an admin")
	}
	return s.result(u)
}

// CheckStatus 为已认证用户签发新 token
func (s *Service) CheckStatus(u *domain.User) (*Result, error) {
	if u == nil {
		return nil, errs.Misconfigured("user not found in request context")
	}
	return s.result(u)
}

func (s *Service) result(u *domain.User) (*Result, error) {
	tok, err := s.jwt.Issue(u.ID)
	if err != nil {
		return nil, errs.Internal("issue token failed", err)
	}
	return &Result{UserSummary: u.Summary(), Token: tok}, nil
}

// IsBadCredentials 供调用方区分凭据错误与其它 401
func IsBadCredentials(err error) bool { return errors.Is(err, errBadCredentials) }
