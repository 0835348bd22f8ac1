// Package auth authenticates the studio owner and partners against the
// credentials kept in the studio settings, issuing signed session tokens.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/agendaluz/studio-agenda/internal/settings"
	"github.com/agendaluz/studio-agenda/pkg/logging"
)

// Roles carried in session tokens.
const (
	RoleMaster  = "master"
	RolePartner = "partner"
)

var (
	// ErrInvalidCredentials is returned when handle/password don't match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAuthDisabled is returned when no signing secret is configured.
	ErrAuthDisabled = errors.New("session auth is not configured")
)

// Session describes the logged-in actor. Partners see their own bookings and
// earn their configured commission; the owner sees everything at 100%.
type Session struct {
	Handle            string  `json:"handle"`
	StaffName         string  `json:"staffName,omitempty"`
	Role              string  `json:"role"`
	CommissionPercent float64 `json:"commissionPercent"`
}

// Claims is the JWT payload for a session token.
type Claims struct {
	jwt.RegisteredClaims
	Role              string  `json:"role"`
	StaffName         string  `json:"staffName,omitempty"`
	CommissionPercent float64 `json:"commissionPercent"`
}

// SettingsSource supplies the current studio settings.
type SettingsSource interface {
	Settings() settings.Settings
}

// Service validates logins and signs session tokens.
type Service struct {
	source SettingsSource
	secret []byte
	ttl    time.Duration
	logger *logging.Logger
	now    func() time.Time
}

// NewService constructs the auth service.
func NewService(source SettingsSource, secret string, ttl time.Duration, logger *logging.Logger) *Service {
	if source == nil {
		panic("auth: settings source required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{
		source: source,
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Login checks the handle and password against the stored settings. The
// credentials live in the settings map as the original studio configured
// them, so the comparison is a plain string match.
func (s *Service) Login(handle, password string) (string, Session, error) {
	if len(s.secret) == 0 {
		return "", Session{}, ErrAuthDisabled
	}

	cfg := s.source.Settings()
	session, ok := s.match(cfg, handle, password)
	if !ok {
		s.logger.Warn("login rejected", "handle", handle)
		return "", Session{}, ErrInvalidCredentials
	}

	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.Handle,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Role:              session.Role,
		StaffName:         session.StaffName,
		CommissionPercent: session.CommissionPercent,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", Session{}, err
	}
	s.logger.Info("login accepted", "handle", session.Handle, "role", session.Role)
	return token, session, nil
}

func (s *Service) match(cfg settings.Settings, handle, password string) (Session, bool) {
	if handle == cfg.MasterHandle && password == cfg.MasterPassword {
		return Session{Handle: handle, Role: RoleMaster, CommissionPercent: 100}, true
	}
	if p, ok := cfg.PartnerByHandle(handle); ok && p.Password == password {
		return Session{
			Handle:            p.LoginHandle,
			StaffName:         p.Name,
			Role:              RolePartner,
			CommissionPercent: p.CommissionPercent,
		}, true
	}
	return Session{}, false
}

// Verify parses and validates a session token, returning the session.
func (s *Service) Verify(tokenString string) (Session, error) {
	if len(s.secret) == 0 {
		return Session{}, ErrAuthDisabled
	}
	claims := Claims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Session{}, ErrInvalidCredentials
	}
	return Session{
		Handle:            claims.Subject,
		StaffName:         claims.StaffName,
		Role:              claims.Role,
		CommissionPercent: claims.CommissionPercent,
	}, nil
}

type contextKey string

const sessionKey contextKey = "studioSession"

// WithSession stores the session on the context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFromContext returns the session if one was attached by middleware.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)
	return s, ok
}
