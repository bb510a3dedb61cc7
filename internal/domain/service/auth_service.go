package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/MattHalloran/NLN-sub003/internal/config"
	domainErrors "github.com/MattHalloran/NLN-sub003/internal/domain/errors"
	"github.com/MattHalloran/NLN-sub003/internal/domain/models"
	"github.com/MattHalloran/NLN-sub003/internal/domain/repository"
	"github.com/MattHalloran/NLN-sub003/internal/events/kafka"
)

// Lockout and code-validity constants. Fixed by the storefront's security
// policy, not configurable at runtime.
const (
	softLockoutAttempts      = 5
	hardLockoutAttempts      = 15
	softLockoutWindow        = 5 * time.Minute
	resetCodeValidity        = 48 * time.Hour
	verificationCodeValidity = 7 * 24 * time.Hour

	resetCodeBytes        = 32
	verificationCodeBytes = 32
)

// decoyPasswordHash is compared against when the account does not exist, so a
// lookup miss costs the same as a wrong password and account existence cannot
// be probed through response latency.
const decoyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService implements the login state machine and the account credential
// flows around it. All collaborators are injected; there are no process-wide
// singletons.
type AuthService struct {
	cfg          *config.Config
	logger       *zap.Logger
	customerRepo repository.CustomerRepository
	passwords    PasswordService
	tokens       TokenService
	events       EventPublisher
	audit        AuditRecorder
	validate     *validator.Validate
}

func NewAuthService(
	cfg *config.Config,
	logger *zap.Logger,
	customerRepo repository.CustomerRepository,
	passwords PasswordService,
	tokens TokenService,
	events EventPublisher,
	audit AuditRecorder,
) *AuthService {
	return &AuthService{
		cfg:          cfg,
		logger:       logger,
		customerRepo: customerRepo,
		passwords:    passwords,
		tokens:       tokens,
		events:       events,
		audit:        audit,
		validate:     validator.New(),
	}
}

// Profile returns the caller's own account, resolved from a verified request
// identity. Lockout bookkeeping is never touched on this path.
func (s *AuthService) Profile(ctx context.Context, ident *models.RequestIdentity) (*models.CustomerProfile, error) {
	if ident == nil || !ident.ValidToken {
		return nil, domainErrors.ErrUnauthorized
	}
	customer, err := s.customerRepo.FindByID(ctx, ident.CustomerID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrCustomerNotFound) {
			return nil, domainErrors.ErrUnauthorized
		}
		s.logger.Error("failed to load profile", zap.Error(err), zap.String("customer_id", ident.CustomerID.String()))
		return nil, domainErrors.ErrInternal
	}
	return customer.ToProfile(), nil
}

// publishAuthEvent sends a CloudEvent to the auth topic. Publish failures are
// logged and swallowed; the login path must reach a definite outcome.
func (s *AuthService) publishAuthEvent(ctx context.Context, eventType string, subject string, payload interface{}) {
	if err := s.events.PublishCloudEvent(ctx, s.cfg.Kafka.Producer.AuthTopic, kafka.EventType(eventType), &subject, payload); err != nil {
		s.logger.Error("failed to publish auth event", zap.Error(err), zap.String("event_type", eventType))
	}
}

// publishNotification sends a CloudEvent the mailer service consumes.
func (s *AuthService) publishNotification(ctx context.Context, eventType string, subject string, payload interface{}) {
	if err := s.events.PublishCloudEvent(ctx, s.cfg.Kafka.Producer.NotificationTopic, kafka.EventType(eventType), &subject, payload); err != nil {
		s.logger.Error("failed to publish notification event", zap.Error(err), zap.String("event_type", eventType))
	}
}

var _ Authenticator = (*AuthService)(nil)
