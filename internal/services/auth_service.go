package services

import (
	"context"
	"strings"
	"sync"

	"skyjobs/internal/appErrors"
	"skyjobs/internal/auth"
	"skyjobs/internal/email"
	"skyjobs/internal/logger"
	"skyjobs/internal/models"
	"skyjobs/internal/repositories"
	"skyjobs/internal/services/dto"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)
	ConfirmEmail(ctx context.Context, db *gorm.DB, token string) error
	GetUserByID(ctx context.Context, db *gorm.DB, id uint) (*models.User, error)
	// Authenticate проверяет bearer токен и заново загружает пользователя из БД
	Authenticate(ctx context.Context, db *gorm.DB, token string) (*models.User, error)
	// EnsureAdmin создает подтвержденного администратора, если такого имени еще нет
	EnsureAdmin(ctx context.Context, db *gorm.DB, username, password, email string) (bool, error)
	// Wait ждет фоновую отправку писем или отмену ctx
	Wait(ctx context.Context) error
}

// AuthOptions - настройки поведения регистрации и входа
type AuthOptions struct {
	// BaseURL используется для ссылки подтверждения: <BaseURL>/api/confirm/<token>
	BaseURL string
	// RequireConfirmation запрещает вход неподтвержденным аккаунтам
	RequireConfirmation bool
}

type AuthServiceImpl struct {
	userRepo      repositories.UserRepository
	tokens        *auth.TokenManager
	emailProvider email.Provider
	opts          AuthOptions

	pending sync.WaitGroup
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokens *auth.TokenManager,
	emailProvider email.Provider,
	opts AuthOptions,
) AuthService {
	return &AuthServiceImpl{
		userRepo:      userRepo,
		tokens:        tokens,
		emailProvider: emailProvider,
		opts:          opts,
	}
}

// Register - регистрация нового пользователя
func (s *AuthServiceImpl) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*models.User, error) {
	db = db.WithContext(ctx)

	accountType := models.AccountType(req.AccountType)
	if !accountType.IsSelfRegistrable() {
		return nil, appErrors.ValidationError(map[string]string{"accountType": "Must be one of: client, pilot"})
	}

	exists, err := s.userRepo.ExistsByUsername(db, req.Username)
	if err != nil {
		return nil, appErrors.DatabaseError(err)
	}
	if exists {
		return nil, appErrors.ErrUsernameTaken
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	confirmationToken, err := auth.GenerateConfirmationToken()
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	user := &models.User{
		Username:          req.Username,
		Password:          hashedPassword,
		Email:             req.Email,
		AccountType:       accountType,
		Confirmed:         false,
		ConfirmationToken: &confirmationToken,
	}

	if err := s.userRepo.Create(db, user); err != nil {
		// Параллельная регистрация того же имени упирается в уникальный индекс
		if appErrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, appErrors.ErrUsernameTaken
		}
		return nil, appErrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "User registered", "user_id", user.ID, "username", user.Username, "account_type", user.AccountType)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.sendConfirmation(context.WithoutCancel(ctx), user.Email, user.Username, confirmationToken)
	}()

	return user, nil
}

// Login - аутентификация пользователя
func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(db.WithContext(ctx), req.Username)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.DatabaseError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.Password) {
		logger.CtxWarn(ctx, "Login failed: wrong password", "username", req.Username)
		return nil, appErrors.ErrInvalidCredentials
	}

	if s.opts.RequireConfirmation && !user.Confirmed {
		return nil, appErrors.ErrUserNotConfirmed
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Username, string(user.AccountType))
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	return &dto.LoginResponse{
		Success:   true,
		Message:   "Login successful",
		Token:     token,
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
		User:      dto.NewUserResponse(user),
	}, nil
}

// ConfirmEmail подтверждает аккаунт. Условный UPDATE гарантирует единственный успех
// при параллельных запросах с одним токеном.
func (s *AuthServiceImpl) ConfirmEmail(ctx context.Context, db *gorm.DB, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return appErrors.ErrConfirmationInvalid
	}
	db = db.WithContext(ctx)

	confirmed, err := s.userRepo.ConfirmByToken(db, token)
	if err != nil {
		return appErrors.DatabaseError(err)
	}
	if confirmed {
		logger.CtxInfo(ctx, "Account confirmed")
		return nil
	}

	user, err := s.userRepo.FindByConfirmationToken(db, token)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return appErrors.ErrConfirmationInvalid
		}
		return appErrors.DatabaseError(err)
	}
	if user.Confirmed {
		return appErrors.ErrAccountAlreadyConfirmed
	}
	return appErrors.ErrConfirmationInvalid
}

func (s *AuthServiceImpl) GetUserByID(ctx context.Context, db *gorm.DB, id uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(db.WithContext(ctx), id)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.NotFound("User")
		}
		return nil, appErrors.DatabaseError(err)
	}
	return user, nil
}

func (s *AuthServiceImpl) Authenticate(ctx context.Context, db *gorm.DB, token string) (*models.User, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, appErrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(db.WithContext(ctx), claims.UserID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrInvalidToken
		}
		return nil, appErrors.DatabaseError(err)
	}
	return user, nil
}

func (s *AuthServiceImpl) EnsureAdmin(ctx context.Context, db *gorm.DB, username, password, email string) (bool, error) {
	db = db.WithContext(ctx)

	exists, err := s.userRepo.ExistsByUsername(db, username)
	if err != nil {
		return false, err
	}
	if exists {
		logger.CtxInfo(ctx, "Admin user already exists. Skipping creation.", "username", username)
		return false, nil
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}

	admin := &models.User{
		Username:    username,
		Password:    hashedPassword,
		Email:       email,
		AccountType: models.AccountTypeAdmin,
		Confirmed:   true,
	}
	if err := s.userRepo.Create(db, admin); err != nil {
		// Другой экземпляр успел создать того же администратора
		if appErrors.Is(err, repositories.ErrUserAlreadyExists) {
			return false, nil
		}
		return false, err
	}

	logger.CtxInfo(ctx, "First admin user created", "username", username, "user_id", admin.ID)
	return true, nil
}

func (s *AuthServiceImpl) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *AuthServiceImpl) sendConfirmation(ctx context.Context, to, username, token string) {
	link := strings.TrimSuffix(s.opts.BaseURL, "/") + "/api/confirm/" + token
	if err := s.emailProvider.SendConfirmation(ctx, to, username, link); err != nil {
		logger.CtxWithError(ctx, "Failed to send confirmation email", err, "username", username)
	}
}
