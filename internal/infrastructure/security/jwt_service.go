package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MattHalloran/NLN-sub003/internal/config"
	domainErrors "github.com/MattHalloran/NLN-sub003/internal/domain/errors"
	"github.com/MattHalloran/NLN-sub003/internal/domain/models"
	"github.com/MattHalloran/NLN-sub003/internal/domain/service"
)

// jwtService implements service.TokenService with HS256-signed claims. The
// server holds no session table; validity is entirely signature plus expiry.
type jwtService struct {
	cfg    config.JWTConfig
	secret []byte
}

func NewJWTService(cfg config.JWTConfig) (service.TokenService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret must be configured")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("jwt token ttl must be positive")
	}
	return &jwtService{cfg: cfg, secret: []byte(cfg.Secret)}, nil
}

// Issue signs a session token for the customer. The isCustomer/isAdmin flags
// are re-derived from the current role set on every call so role changes take
// effect at the next login.
func (s *jwtService) Issue(customer *models.Customer) (string, *service.Claims, error) {
	roles := customer.RoleTitles()
	now := time.Now()

	claims := &service.Claims{
		CustomerID: customer.ID.String(),
		Roles:      roles,
		IsCustomer: hasRole(roles, models.RoleCustomer),
		IsAdmin:    hasRole(roles, models.RoleAdmin) || hasRole(roles, models.RoleOwner),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if customer.BusinessID != nil {
		claims.BusinessID = customer.BusinessID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, claims, nil
}

// Verify checks signature and expiry and builds the request identity. Any
// failure, including structural corruption, returns an error the middleware
// treats as "no token present". A forged or tampered token never yields
// elevated fields.
func (s *jwtService) Verify(tokenString string) (*models.RequestIdentity, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(s.cfg.Audience))
	}
	token, err := jwt.ParseWithClaims(tokenString, &service.Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainErrors.ErrExpiredToken
		}
		return nil, domainErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*service.Claims)
	if !ok || !token.Valid {
		return nil, domainErrors.ErrInvalidToken
	}
	if claims.Issuer != s.cfg.Issuer {
		return nil, domainErrors.ErrInvalidToken
	}

	customerID, err := uuid.Parse(claims.CustomerID)
	if err != nil {
		return nil, domainErrors.ErrInvalidToken
	}

	ident := &models.RequestIdentity{
		CustomerID: customerID,
		Roles:      claims.Roles,
		IsCustomer: claims.IsCustomer,
		IsAdmin:    claims.IsAdmin,
		ValidToken: true,
	}
	if claims.BusinessID != "" {
		businessID, err := uuid.Parse(claims.BusinessID)
		if err != nil {
			return nil, domainErrors.ErrInvalidToken
		}
		ident.BusinessID = &businessID
	}
	return ident, nil
}

func hasRole(roles []string, title string) bool {
	for _, r := range roles {
		if r == title {
			return true
		}
	}
	return false
}

var _ service.TokenService = (*jwtService)(nil)
