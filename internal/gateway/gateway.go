// Package gateway issues the reference-data lookups and the registration call used by the wizard.
package gateway

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/google/uuid"

	"insured-registration/internal/common/config"
	apperrors "insured-registration/internal/common/errors"
	commonhttp "insured-registration/internal/common/http"
	"insured-registration/internal/common/logger"
	"insured-registration/internal/common/metrics"
	"insured-registration/internal/models"
)

// Gateway is the lookup and registration contract consumed by the wizard.
type Gateway interface {
	Provinces(ctx context.Context) ([]models.Province, error)
	Cities(ctx context.Context, province models.Province) ([]models.City, error)
	Brands(ctx context.Context) ([]models.VehicleBrand, error)
	Years(ctx context.Context) ([]models.VehicleYear, error)
	Models(ctx context.Context, brand models.VehicleBrand, year models.VehicleYear) ([]models.VehicleModel, error)
	Versions(ctx context.Context, brand models.VehicleBrand, year models.VehicleYear, model models.VehicleModel) ([]models.VehicleVersion, error)
	Coverages(ctx context.Context, draft models.RegistrationDraft) ([]models.Coverage, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	CheckPasswordStrength(ctx context.Context, password string) (models.PasswordStrength, error)
	Register(ctx context.Context, draft models.RegistrationDraft) (*models.Confirmation, error)
}

// Options configures a Client.
type Options struct {
	GeoRefURL    string
	VehiclesURL  string
	InsuranceURL string

	GeoRefTimeout    time.Duration
	VehiclesTimeout  time.Duration
	InsuranceTimeout time.Duration

	MaxCities     int
	YearRange     int
	RegisterDelay time.Duration

	HTTPClient *commonhttp.Client
	Logger     logger.Logger
	Now        func() time.Time
	NewID      func() uuid.UUID
}

// Client is the HTTP-backed Gateway.
type Client struct {
	opts   Options
	http   *commonhttp.Client
	logger logger.Logger
}

var _ Gateway = (*Client)(nil)

func NewClient(opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = commonhttp.NewClient(30 * time.Second)
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.New
	}
	if opts.YearRange <= 0 {
		opts.YearRange = 20
	}
	if opts.MaxCities <= 0 {
		opts.MaxCities = 1000
	}

	return &Client{
		opts:   opts,
		http:   opts.HTTPClient,
		logger: opts.Logger.WithFields(map[string]interface{}{"component": "gateway"}),
	}
}

// NewClientFromConfig builds a Client from the application configuration.
func NewClientFromConfig(cfg *config.Config, log logger.Logger) *Client {
	return NewClient(Options{
		GeoRefURL:        cfg.APIs.GeoRef.BaseURL,
		VehiclesURL:      cfg.APIs.Vehicles.BaseURL,
		InsuranceURL:     cfg.APIs.Insurance.BaseURL,
		GeoRefTimeout:    config.GetDuration(cfg.APIs.GeoRef.Timeout),
		VehiclesTimeout:  config.GetDuration(cfg.APIs.Vehicles.Timeout),
		InsuranceTimeout: config.GetDuration(cfg.APIs.Insurance.Timeout),
		MaxCities:        cfg.APIs.MaxCities,
		YearRange:        cfg.Registration.YearRange,
		RegisterDelay:    config.GetDuration(cfg.Registration.Delay),
		Logger:           log,
	})
}

// observe runs fn under an optional timeout, records metrics and maps failures to StandardErrors.
func (c *Client) observe(ctx context.Context, operation string, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	metrics.LookupDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.LookupRequests.WithLabelValues(operation, "error").Inc()
		c.logger.Warn("Lookup failed", map[string]interface{}{
			"operation": operation,
			"error":     err.Error(),
		})
		return lookupError(operation, err)
	}

	metrics.LookupRequests.WithLabelValues(operation, "success").Inc()
	return nil
}

func lookupError(operation string, err error) error {
	if _, ok := apperrors.As(err); ok {
		return err
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apperrors.NewLookupTimeoutError(operation, err)
	}

	var decodeErr *commonhttp.DecodeError
	if errors.As(err, &decodeErr) {
		return apperrors.NewLookupDecodeError(operation, err)
	}

	stdErr := apperrors.NewLookupFailedError(operation, err)
	var statusErr *commonhttp.StatusError
	if errors.As(err, &statusErr) {
		stdErr.WithMetadata("statusCode", statusErr.StatusCode)
	}
	return stdErr
}
