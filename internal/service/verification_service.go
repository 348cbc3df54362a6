package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"verifai/internal/entity"
	"verifai/internal/repository"
	"verifai/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type VerificationConfig struct {
	// Validity window for issued links. Defaults to 24 hours.
	LinkTTL time.Duration

	// Base URL the signed token is appended to when building the
	// recipient-facing verification URL.
	FrontendURL string

	// Purpose tag the link codec signs under.
	LinkPurpose string
}

type VerificationService struct {
	tokens   repository.VerificationTokenRepository
	outcomes repository.VerificationOutcomeRepository

	codec      LinkTokenCodec
	geocoder   Geocoder
	risk       *GeoRiskEngine
	linkSender LinkSender
	clock      Clock
	logger     *logrus.Logger
	config     VerificationConfig
}

func NewVerificationService(
	tokens repository.VerificationTokenRepository,
	outcomes repository.VerificationOutcomeRepository,
	codec LinkTokenCodec,
	geocoder Geocoder,
	risk *GeoRiskEngine,
	linkSender LinkSender,
	clock Clock,
	logger *logrus.Logger,
	config VerificationConfig,
) *VerificationService {
	if risk == nil {
		risk = NewGeoRiskEngine()
	}
	return &VerificationService{
		tokens:     tokens,
		outcomes:   outcomes,
		codec:      codec,
		geocoder:   geocoder,
		risk:       risk,
		linkSender: linkSender,
		clock:      clock,
		logger:     logger,
		config:     config,
	}
}

// IssueLink mints a signed verification link and records its token with
// status active.
func (s *VerificationService) IssueLink(ctx context.Context, input IssueLinkInput) (*IssueLinkResult, error) {
	if err := requireFields(map[string]string{
		"fullName":         input.FullName,
		"email":            input.Email,
		"address":          input.Address,
		"city":             input.City,
		"state":            input.State,
		"zipCode":          input.ZipCode,
		"organizationName": input.OrganizationName,
	}); err != nil {
		return nil, err
	}

	tokenID, err := utils.GenerateRandomToken(32)
	if err != nil {
		return nil, err
	}

	claims := LinkClaims{
		TokenID:          tokenID,
		FullName:         input.FullName,
		Email:            input.Email,
		Address:          input.Address,
		City:             input.City,
		State:            input.State,
		ZipCode:          input.ZipCode,
		OrganizationName: input.OrganizationName,
	}
	signed, err := s.codec.Encode(claims, s.linkPurpose())
	if err != nil {
		return nil, err
	}

	now := s.now()
	record := &entity.VerificationToken{
		ID:               tokenID,
		SignedToken:      signed,
		RecipientEmail:   input.Email,
		RecipientName:    input.FullName,
		OrganizationName: input.OrganizationName,
		CreatedAt:        now,
		ExpiresAt:        now.Add(s.linkTTL()),
		Status:           entity.TokenStatusActive,
		IssuingKeyID:     input.IssuingKeyID,
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: token id collision", ErrConflict)
		}
		return nil, err
	}

	url := s.verificationURL(signed)
	if s.linkSender != nil {
		if err := s.linkSender.SendVerificationLink(ctx, input.Email, input.FullName, url); err != nil {
			s.warn(err, "failed to email verification link")
		}
	}

	return &IssueLinkResult{
		TokenID:         tokenID,
		SignedToken:     signed,
		VerificationURL: url,
		ExpiresAt:       record.ExpiresAt,
		RecipientName:   input.FullName,
		RecipientEmail:  input.Email,
	}, nil
}

// ValidateLink decodes a signed link and checks that its token is still
// consumable. It does not consume the token.
func (s *VerificationService) ValidateLink(ctx context.Context, signedToken string) (*LinkClaims, error) {
	if strings.TrimSpace(signedToken) == "" {
		return nil, fmt.Errorf("%w: no token provided", ErrValidation)
	}
	claims, err := s.codec.Decode(signedToken, s.linkPurpose(), s.linkTTL())
	if err != nil {
		return nil, err
	}

	record, err := s.tokens.FindByID(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: unknown verification token", ErrValidation)
	}
	if record.Used {
		return nil, ErrAlreadyUsed
	}
	if record.Status != entity.TokenStatusActive {
		return nil, fmt.Errorf("%w: this verification link is no longer active", ErrValidation)
	}
	if !record.ExpiresAt.After(s.now()) {
		return nil, ErrLinkExpired
	}
	return claims, nil
}

// Submit records a verification outcome. When a signed token accompanies the
// submission its identity claims override the request body and the token is
// consumed (transitioned to completed) exactly once; direct submissions must
// carry a full identity payload of their own.
func (s *VerificationService) Submit(ctx context.Context, input SubmissionInput) (*SubmissionResult, error) {
	var tokenID *string
	if strings.TrimSpace(input.SignedToken) != "" {
		claims, err := s.ValidateLink(ctx, input.SignedToken)
		if err != nil {
			return nil, err
		}
		applyClaims(&input, claims)
		id := claims.TokenID
		tokenID = &id
	}

	if err := requireFields(map[string]string{
		"fullName": input.FullName,
		"email":    input.Email,
		"address":  input.Address,
		"city":     input.City,
		"state":    input.State,
		"zipCode":  input.ZipCode,
	}); err != nil {
		return nil, err
	}

	if tokenID != nil {
		if err := s.consumeToken(ctx, *tokenID, entity.TokenStatusCompleted, true); err != nil {
			return nil, err
		}
	}
	return s.recordOutcome(ctx, input, tokenID, false)
}

// Decline consumes the token and records a declined-by-user outcome.
// Location data is discarded and consent is recorded as withheld.
func (s *VerificationService) Decline(ctx context.Context, input SubmissionInput) (*SubmissionResult, error) {
	claims, err := s.ValidateLink(ctx, input.SignedToken)
	if err != nil {
		return nil, err
	}
	applyClaims(&input, claims)
	input.Observed = nil
	input.Consent = false

	if err := s.consumeToken(ctx, claims.TokenID, entity.TokenStatusDeclined, true); err != nil {
		return nil, err
	}
	tokenID := claims.TokenID
	return s.recordOutcome(ctx, input, &tokenID, true)
}

// Revoke administratively disables an active token. It is not a consumption:
// the token stays unused and no outcome is recorded.
func (s *VerificationService) Revoke(ctx context.Context, tokenID string) error {
	if strings.TrimSpace(tokenID) == "" {
		return fmt.Errorf("%w: invalid token id", ErrValidation)
	}
	err := s.consumeToken(ctx, tokenID, entity.TokenStatusRevoked, false)
	if errors.Is(err, ErrAlreadyUsed) {
		return ErrInvalidTransition
	}
	return err
}

func (s *VerificationService) ListTokens(ctx context.Context) ([]entity.VerificationToken, error) {
	return s.tokens.List(ctx)
}

func (s *VerificationService) ListOutcomes(ctx context.Context) ([]entity.VerificationOutcome, error) {
	return s.outcomes.List(ctx)
}

// ListOutcomesForKey returns the outcomes produced by links a given API key
// issued.
func (s *VerificationService) ListOutcomesForKey(ctx context.Context, keyID string) ([]entity.VerificationOutcome, error) {
	tokens, err := s.tokens.ListByIssuingKey(ctx, keyID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(tokens))
	for i := range tokens {
		ids = append(ids, tokens[i].ID)
	}
	return s.outcomes.ListByTokenIDs(ctx, ids)
}

func (s *VerificationService) Stats(ctx context.Context) (*DashboardStats, error) {
	total, err := s.outcomes.Count(ctx)
	if err != nil {
		return nil, err
	}
	verified, err := s.outcomes.CountByState(ctx, entity.StateVerified)
	if err != nil {
		return nil, err
	}
	review, err := s.outcomes.CountByState(ctx, entity.StateRequiresReview)
	if err != nil {
		return nil, err
	}
	active, err := s.tokens.CountByStatus(ctx, entity.TokenStatusActive)
	if err != nil {
		return nil, err
	}
	recent, err := s.outcomes.ListRecent(ctx, 5)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		TotalOutcomes:  total,
		Verified:       verified,
		RequiresReview: review,
		ActiveTokens:   active,
		Recent:         recent,
	}, nil
}

// consumeToken performs the compare-and-swap transition out of active. When
// the swap misses it re-reads the row only to pick the right error; the
// storage layer remains the single arbiter of who consumed the token.
func (s *VerificationService) consumeToken(ctx context.Context, id string, target entity.TokenStatus, markUsed bool) error {
	swapped, err := s.tokens.Consume(ctx, id, target, markUsed)
	if err != nil {
		return err
	}
	if swapped {
		return nil
	}

	record, err := s.tokens.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("%w: token not found", ErrNotFound)
	}
	if record.Used {
		return ErrAlreadyUsed
	}
	return ErrInvalidTransition
}

func (s *VerificationService) recordOutcome(
	ctx context.Context,
	input SubmissionInput,
	tokenID *string,
	declined bool,
) (*SubmissionResult, error) {
	fullAddress := fmt.Sprintf("%s, %s, %s %s", input.Address, input.City, input.State, input.ZipCode)
	claimedLat, claimedLon := s.geocoder.Geocode(ctx, fullAddress)

	var distance *float64
	var observedLat, observedLon, observedAcc *float64
	if input.Observed != nil {
		d := s.risk.Distance(input.Observed.Latitude, input.Observed.Longitude, claimedLat, claimedLon)
		distance = &d
		observedLat = &input.Observed.Latitude
		observedLon = &input.Observed.Longitude
		observedAcc = &input.Observed.AccuracyMeters
	}

	state := s.risk.StateFor(distance)
	risk := s.risk.Classify(distance)
	consent := input.Consent
	if declined {
		state = entity.StateDeclinedByUser
		risk = entity.RiskVeryHigh
		consent = false
	}

	metadata, err := securityMetadata(input)
	if err != nil {
		return nil, err
	}

	outcome := &entity.VerificationOutcome{
		ID:                   uuid.New(),
		TokenID:              tokenID,
		ClaimantName:         input.FullName,
		ClaimantEmail:        input.Email,
		ClaimantPhone:        input.Phone,
		OrganizationName:     input.OrganizationName,
		ClaimedAddress:       fullAddress,
		ClaimedLat:           claimedLat,
		ClaimedLon:           claimedLon,
		ObservedLat:          observedLat,
		ObservedLon:          observedLon,
		ObservedAccuracyM:    observedAcc,
		DistanceMeters:       distance,
		RiskLevel:            risk,
		VerificationState:    state,
		RequiresManualReview: risk.RequiresManualReview(),
		ConsentGiven:         consent,
		SecurityMetadata:     metadata,
		CreatedAt:            s.now(),
	}
	if err := s.outcomes.Create(ctx, outcome); err != nil {
		return nil, err
	}

	return &SubmissionResult{
		OutcomeID:         outcome.ID.String(),
		TokenID:           tokenID,
		VerificationState: state,
		RiskLevel:         risk,
		RiskScore:         risk.Score(),
		LocationVerified:  state == entity.StateVerified,
		DistanceMeters:    distance,
		Message:           resultMessage(state, distance),
		CreatedAt:         outcome.CreatedAt,
	}, nil
}

func applyClaims(input *SubmissionInput, claims *LinkClaims) {
	input.FullName = claims.FullName
	input.Email = claims.Email
	input.Address = claims.Address
	input.City = claims.City
	input.State = claims.State
	input.ZipCode = claims.ZipCode
	input.OrganizationName = claims.OrganizationName
}

func requireFields(fields map[string]string) error {
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: missing required field %q", ErrValidation, name)
		}
	}
	return nil
}

func securityMetadata(input SubmissionInput) (datatypes.JSON, error) {
	payload := map[string]string{
		"user_agent":        input.UserAgent,
		"screen_resolution": input.ScreenResolution,
		"timezone":          input.Timezone,
		"ip_address":        input.RequestIP,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func resultMessage(state entity.VerificationState, distance *float64) string {
	switch {
	case state == entity.StateVerified && distance != nil:
		return fmt.Sprintf("Address verification successful. User is within %.0fm of claimed address.", *distance)
	case state == entity.StateRequiresReview && distance != nil:
		return fmt.Sprintf("Manual review required. User is %.0fm from claimed address.", *distance)
	case state == entity.StateDeclinedByUser:
		return "Verification declined by user."
	}
	return "Manual verification required due to insufficient location data."
}

func (s *VerificationService) verificationURL(signedToken string) string {
	base := strings.TrimRight(s.config.FrontendURL, "/")
	return fmt.Sprintf("%s/verify?token=%s", base, signedToken)
}

func (s *VerificationService) linkPurpose() string {
	if s.config.LinkPurpose != "" {
		return s.config.LinkPurpose
	}
	return PurposeVerificationLink
}

func (s *VerificationService) linkTTL() time.Duration {
	if s.config.LinkTTL > 0 {
		return s.config.LinkTTL
	}
	return 24 * time.Hour
}

func (s *VerificationService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *VerificationService) warn(err error, msg string) {
	if s.logger != nil {
		s.logger.WithError(err).Warn(msg)
	}
}
