package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"sigilo/internal/platform/middleware"
	dErrors "sigilo/pkg/domain-errors"
)

// Claims represents the JWT claims issued by the clinic context provider.
type Claims struct {
	TenantID    string `json:"tenant_id"`
	RequesterID string `json:"requester_id"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService validates clinic-context tokens. Token issuance belongs to the
// clinic context provider; the generator here exists for tests and local
// development.
type JWTService struct {
	signingKey []byte
	issuer     string
}

func NewJWTService(signingKey string, issuer string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
}

// GenerateToken mints a clinic-context token. Development and test use only.
func (s *JWTService) GenerateToken(tenantID, requesterID uuid.UUID, role string, expiresIn time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		TenantID:    tenantID.String(),
		RequesterID: requesterID.String(),
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// ValidateToken parses and verifies a clinic-context token.
func (s *JWTService) ValidateToken(tokenString string) (*middleware.ClinicClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	return &middleware.ClinicClaims{
		TenantID:    claims.TenantID,
		RequesterID: claims.RequesterID,
		Role:        claims.Role,
	}, nil
}
