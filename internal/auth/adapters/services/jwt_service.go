package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"authgate/internal/auth/domain/services"
	"authgate/internal/auth/ports/repositories"
	svc "authgate/internal/auth/ports/services"
	"authgate/pkg/logger"
)

// Константы для работы с токенами.
const (
	methodIssue  = "Issue"
	methodVerify = "Verify"
	methodRevoke = "Revoke"

	msgIssuingToken      = "issuing access token"
	msgTokenIssued       = "access token issued"
	msgVerifyingToken    = "verifying access token"
	msgTokenVerified     = "access token verified"
	msgTokenExpired      = "token has expired"
	msgTokenMalformed    = "token is malformed or signature mismatch"
	msgTokenRevoked      = "token found in denylist"
	msgRevokingToken     = "revoking access token"
	msgTokenAlreadyDead  = "token already expired, revocation skipped"
	msgTokenDenylisted   = "token added to denylist"
	msgEmptySubjectClaim = "sub claim is empty"
	msgEmptyTokenIDClaim = "jti claim is empty"
	msgMissingExpiry     = "exp claim is missing"

	//nolint:gosec
	errSigningToken = "error signing token"
	//nolint:gosec
	errParsingToken      = "error parsing token"
	errDenylistCheck     = "denylist check failed, rejecting token"
	errDenylistInsert    = "failed to add token to denylist"
	errCtxIssuingToken   = "issuing token"
	errCtxVerifyingToken = "verifying token"
	errCtxRevokingToken  = "revoking token"
)

// ErrInvalidAlgorithm представляет статическую ошибку неверного алгоритма подписи.
var ErrInvalidAlgorithm = errors.New("invalid signing algorithm")

// ServiceJWT реализует интерфейс TokenService на базе подписанных JWT.
// Проверка токена сверяется с денилистом отозванных jti; недоступность
// денилиста трактуется как недействительность токена (fail-closed).
type ServiceJWT struct {
	config   services.TokenConfig
	denylist repositories.TokenDenylist
	now      func() time.Time
}

// Option настраивает сервис токенов.
type Option func(*ServiceJWT)

// WithClock подменяет источник текущего времени. Используется в тестах
// для детерминированной проверки истечения срока действия.
func WithClock(now func() time.Time) Option {
	return func(s *ServiceJWT) {
		s.now = now
	}
}

// NewJWT создает новый экземпляр сервиса токенов.
func NewJWT(secretKey string, accessTokenTTL time.Duration, denylist repositories.TokenDenylist, opts ...Option) svc.TokenService {
	if accessTokenTTL <= 0 {
		accessTokenTTL = services.DefaultAccessTokenTTL
	}

	s := &ServiceJWT{
		config: services.TokenConfig{
			SecretKey:      []byte(secretKey),
			AccessTokenTTL: accessTokenTTL,
		},
		denylist: denylist,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// domainToJWTClaims преобразует доменные claims в формат библиотеки JWT.
func domainToJWTClaims(claims services.TokenClaims) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   claims.SubjectID,
		ID:        claims.TokenID,
		IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
		ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
	}
}

// jwtToDomainClaims преобразует claims формата библиотеки JWT в доменные claims.
func jwtToDomainClaims(claims jwt.RegisteredClaims) services.TokenClaims {
	var expiresAt, issuedAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}

	return services.TokenClaims{
		SubjectID: claims.Subject,
		TokenID:   claims.ID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}
}

// Issue выдает подписанный токен доступа с уникальным jti.
func (s *ServiceJWT) Issue(ctx context.Context, subjectID string, ttl time.Duration) (string, time.Time, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodIssue),
		zap.String("subjectID", subjectID),
	)
	log.Debug(ctx, msgIssuingToken)

	if len(s.config.SecretKey) == 0 {
		log.Error(ctx, "empty secret key provided")
		return "", time.Time{}, fmt.Errorf("%s: %w: empty secret key", errCtxIssuingToken, services.ErrGeneratingToken)
	}

	if ttl <= 0 {
		ttl = s.config.AccessTokenTTL
	}

	now := s.now()
	domainClaims := services.TokenClaims{
		SubjectID: subjectID,
		TokenID:   uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, domainToJWTClaims(domainClaims))

	tokenString, err := token.SignedString(s.config.SecretKey)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return "", time.Time{}, fmt.Errorf("%s: %w: %w", errCtxIssuingToken, services.ErrGeneratingToken, err)
	}

	log.Debug(ctx, msgTokenIssued,
		zap.String("jti", domainClaims.TokenID),
		zap.Time("expiresAt", domainClaims.ExpiresAt))
	return tokenString, domainClaims.ExpiresAt, nil
}

// Verify проверяет токен и возвращает идентификатор субъекта.
// Структурно некорректный, истекший и отозванный токены неразличимы
// для вызывающего: все три случая возвращают services.ErrInvalidToken.
func (s *ServiceJWT) Verify(ctx context.Context, tokenString string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", methodVerify))
	log.Debug(ctx, msgVerifyingToken)

	claims, err := s.parse(tokenString, false)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug(ctx, msgTokenExpired)
		} else {
			log.Debug(ctx, msgTokenMalformed, zap.Error(err))
		}
		return "", fmt.Errorf("%s: %w", errCtxVerifyingToken, services.ErrInvalidToken)
	}

	if claims.SubjectID == "" {
		log.Debug(ctx, msgEmptySubjectClaim)
		return "", fmt.Errorf("%s: %w", errCtxVerifyingToken, services.ErrInvalidToken)
	}
	if claims.TokenID == "" {
		log.Debug(ctx, msgEmptyTokenIDClaim)
		return "", fmt.Errorf("%s: %w", errCtxVerifyingToken, services.ErrInvalidToken)
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		log.Error(ctx, errDenylistCheck, zap.Error(err), zap.String("jti", claims.TokenID))
		return "", fmt.Errorf("%s: %w", errCtxVerifyingToken, services.ErrInvalidToken)
	}
	if revoked {
		log.Debug(ctx, msgTokenRevoked, zap.String("jti", claims.TokenID))
		return "", fmt.Errorf("%s: %w", errCtxVerifyingToken, services.ErrInvalidToken)
	}

	log.Debug(ctx, msgTokenVerified, zap.String("subjectID", claims.SubjectID))
	return claims.SubjectID, nil
}

// Revoke помещает jti токена в денилист на остаток времени его жизни.
// Подпись проверяется, чтобы нельзя было отозвать произвольный jti;
// истечение срока при этом не учитывается.
func (s *ServiceJWT) Revoke(ctx context.Context, tokenString string) error {
	log := logger.Log(ctx).With(zap.String("method", methodRevoke))
	log.Debug(ctx, msgRevokingToken)

	claims, err := s.parse(tokenString, true)
	if err != nil {
		log.Debug(ctx, msgTokenMalformed, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxRevokingToken, services.ErrInvalidToken)
	}

	if claims.TokenID == "" {
		log.Debug(ctx, msgEmptyTokenIDClaim)
		return fmt.Errorf("%s: %w", errCtxRevokingToken, services.ErrInvalidToken)
	}
	if claims.ExpiresAt.IsZero() {
		log.Debug(ctx, msgMissingExpiry)
		return fmt.Errorf("%s: %w", errCtxRevokingToken, services.ErrInvalidToken)
	}

	remaining := claims.ExpiresAt.Sub(s.now())
	if remaining <= 0 {
		log.Debug(ctx, msgTokenAlreadyDead, zap.String("jti", claims.TokenID))
		return nil
	}

	if err := s.denylist.Revoke(ctx, claims.TokenID, remaining); err != nil {
		log.Error(ctx, errDenylistInsert, zap.Error(err), zap.String("jti", claims.TokenID))
		return fmt.Errorf("%s: %w", errCtxRevokingToken, err)
	}

	log.Debug(ctx, msgTokenDenylisted,
		zap.String("jti", claims.TokenID),
		zap.Duration("ttl", remaining))
	return nil
}

// parse разбирает токен, проверяя подпись и алгоритм. При
// skipExpiry пропускается валидация временных claims.
func (s *ServiceJWT) parse(tokenString string, skipExpiry bool) (services.TokenClaims, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, token.Header["alg"])
		}
		return s.config.SecretKey, nil
	}

	options := []jwt.ParserOption{jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired()}
	if skipExpiry {
		options = []jwt.ParserOption{jwt.WithoutClaimsValidation()}
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, keyFunc, options...)
	if err != nil {
		return services.TokenClaims{}, fmt.Errorf("%s: %w", errParsingToken, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return services.TokenClaims{}, fmt.Errorf("%s: %w", errParsingToken, services.ErrInvalidToken)
	}

	return jwtToDomainClaims(*claims), nil
}
