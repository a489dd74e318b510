package auth

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/pantrypal/internal/model"
	"github.com/dukerupert/pantrypal/internal/store"
)

// dummyHash keeps the cost of a login for an unknown email close to that of
// a wrong password.
var dummyHash, _ = HashPassword("pantrypal-dummy-password")

// Service implements sign-up, login, token verification and profile updates
// on top of the user and session stores.
type Service struct {
	users    *store.UserStore
	sessions *store.SessionStore
	tokens   *TokenManager
	validate *validator.Validate
	logger   *slog.Logger
}

func NewService(users *store.UserStore, sessions *store.SessionStore, tokens *TokenManager, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		validate: validator.New(),
		logger:   logger,
	}
}

type SignupInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Signup creates an account. Validation happens in the order the sign-up
// form reports problems: blank fields, mismatched passwords, then the
// provider checks.
func (s *Service) Signup(in SignupInput) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	var missing []string
	if name == "" {
		missing = append(missing, FieldName)
	}
	if email == "" {
		missing = append(missing, FieldEmail)
	}
	if in.Password == "" {
		missing = append(missing, FieldPassword)
	}
	if in.ConfirmPassword == "" {
		missing = append(missing, FieldConfirmPassword)
	}
	if len(missing) > 0 {
		return nil, MissingFields(missing...)
	}
	if in.Password != in.ConfirmPassword {
		return nil, NewError(CodePasswordMismatch)
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, NewError(CodeInvalidEmail)
	}
	if len(in.Password) < MinPasswordLength {
		return nil, NewError(CodeWeakPassword)
	}
	if len(in.Password) > MaxPasswordLength {
		return nil, NewError(CodePasswordTooLong)
	}

	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if existing != nil {
		return nil, NewError(CodeEmailInUse)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Create(email, name, hash)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	s.logger.Info("user signed up", "user_id", u.ID)
	return u, nil
}

// Login checks the credentials and opens a session. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(email, password string) (string, *model.User, error) {
	email = strings.TrimSpace(email)

	var missing []string
	if email == "" {
		missing = append(missing, FieldEmail)
	}
	if password == "" {
		missing = append(missing, FieldPassword)
	}
	if len(missing) > 0 {
		return "", nil, MissingFields(missing...)
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return "", nil, NewError(CodeInvalidEmail)
	}

	u, err := s.users.GetByEmail(email)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	if u == nil {
		CheckPassword(dummyHash, password)
		return "", nil, NewError(CodeInvalidCredential)
	}
	ok, err := CheckPassword(u.PasswordHash, password)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		return "", nil, NewError(CodeInvalidCredential)
	}
	if u.Disabled {
		return "", nil, NewError(CodeUserDisabled)
	}

	sess, err := s.sessions.Create(u.ID, s.tokens.TTL())
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	token, err := s.tokens.Issue(u.ID, sess.TokenID, sess.ExpiresAt)
	if err != nil {
		s.sessions.Delete(sess.ID)
		return "", nil, err
	}
	s.logger.Info("user logged in", "user_id", u.ID, "session_id", sess.ID)
	return token, u, nil
}

// Authenticate resolves a bearer token to the caller. The token must be
// valid, its session must still exist, and the user must be enabled.
func (s *Service) Authenticate(token string) (AuthContext, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return AuthContext{}, NewError(CodeInvalidSession)
	}
	userID, err := claims.UserID()
	if err != nil {
		return AuthContext{}, NewError(CodeInvalidSession)
	}

	sess, err := s.sessions.GetByTokenID(claims.SessionID)
	if err != nil {
		return AuthContext{}, fmt.Errorf("authenticate: %w", err)
	}
	if sess == nil || sess.UserID != userID {
		return AuthContext{}, NewError(CodeInvalidSession)
	}

	u, err := s.users.GetByID(userID)
	if err != nil {
		return AuthContext{}, fmt.Errorf("authenticate: %w", err)
	}
	if u == nil {
		return AuthContext{}, NewError(CodeUserNotFound)
	}
	if u.Disabled {
		return AuthContext{}, NewError(CodeUserDisabled)
	}
	return AuthContext{UserID: u.ID, SessionID: sess.ID}, nil
}

func (s *Service) Logout(sessionID int64) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// CurrentUser returns the caller's account.
func (s *Service) CurrentUser(userID int64) (*model.User, error) {
	u, err := s.users.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	if u == nil {
		return nil, NewError(CodeUserNotFound)
	}
	return u, nil
}

// UpdateName changes the display name.
func (s *Service) UpdateName(userID int64, name string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, MissingFields(FieldName)
	}
	u, err := s.users.UpdateName(userID, name)
	if err != nil {
		return nil, fmt.Errorf("update name: %w", err)
	}
	if u == nil {
		return nil, NewError(CodeUserNotFound)
	}
	s.logger.Info("display name updated", "user_id", userID)
	return u, nil
}
