package gateway

import (
	"context"
	"net/url"
	"time"

	apperrors "insured-registration/internal/common/errors"
	"insured-registration/internal/common/metrics"
	"insured-registration/internal/models"
)

// Coverages returns the plans offered for the draft. The pricing backend is a fixture
// service, so the draft only travels as log context.
func (c *Client) Coverages(ctx context.Context, draft models.RegistrationDraft) ([]models.Coverage, error) {
	fields := map[string]interface{}{}
	if v := draft.VehicleInformation; v != nil {
		fields["brand"] = v.Brand.Code
		fields["year"] = int(v.Year)
		fields["model"] = v.Model.Code
	}
	c.logger.Debug("Loading coverages", fields)

	var coverages []models.Coverage
	err := c.observe(ctx, "coverages", c.opts.InsuranceTimeout, func(ctx context.Context) error {
		return c.http.GetJSON(ctx, c.opts.InsuranceURL, "coberturas", nil, &coverages)
	})
	if err != nil {
		return nil, err
	}
	return coverages, nil
}

func (c *Client) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := c.observe(ctx, "username_exists", c.opts.InsuranceTimeout, func(ctx context.Context) error {
		return c.http.GetJSON(ctx, c.opts.InsuranceURL, "usuarios", url.Values{"nombre": {username}}, &exists)
	})
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Register accepts a complete draft after the configured delay and echoes it back
// inside a Confirmation.
func (c *Client) Register(ctx context.Context, draft models.RegistrationDraft) (*models.Confirmation, error) {
	if !draft.Complete() {
		metrics.Registrations.WithLabelValues("rejected").Inc()
		return nil, apperrors.NewDraftIncompleteError(missingSections(draft)...)
	}

	if c.opts.RegisterDelay > 0 {
		timer := time.NewTimer(c.opts.RegisterDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			metrics.Registrations.WithLabelValues("failed").Inc()
			c.logger.Error("Registration aborted", map[string]interface{}{"error": ctx.Err()})
			return nil, apperrors.NewRegistrationFailedError(ctx.Err())
		case <-timer.C:
		}
	}

	confirmation := &models.Confirmation{
		ID:           c.opts.NewID(),
		Registration: draft,
		RegisteredAt: c.opts.Now().UTC(),
	}

	metrics.Registrations.WithLabelValues("success").Inc()
	c.logger.Info("Registration accepted", map[string]interface{}{
		"confirmationId": confirmation.ID.String(),
		"username":       draft.PersonalInformation.Username,
	})
	return confirmation, nil
}

func missingSections(draft models.RegistrationDraft) []string {
	var missing []string
	if draft.PersonalInformation == nil {
		missing = append(missing, "personalInformation")
	}
	if draft.VehicleInformation == nil {
		missing = append(missing, "vehicleInformation")
	}
	if draft.Coverage == nil {
		missing = append(missing, "coverage")
	}
	return missing
}
