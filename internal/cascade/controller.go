// Package cascade keeps dependent option lists consistent with the selections they depend on.
package cascade

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"insured-registration/internal/common/logger"
	"insured-registration/internal/form"
)

// Lister is the type-erased view of a Level used by the Controller.
type Lister interface {
	Field() form.FieldID
	Parents() []form.FieldID
	dependsOn(field form.FieldID) bool
	invalidate()
	load(ctx context.Context, values form.Values) error
}

// Controller observes a form. When a parent field changes it clears every dependent
// selection and list, then fetches the dependent list once all its parents are set.
type Controller struct {
	form   *form.Form
	levels []Lister
	logger logger.Logger
}

// New creates a controller over levels and registers it as an observer of f.
func New(f *form.Form, log logger.Logger, levels ...Lister) *Controller {
	c := &Controller{
		form:   f,
		levels: levels,
		logger: log.WithFields(map[string]interface{}{"component": "cascade"}),
	}
	f.Observe(c)
	return c
}

// OnChange implements form.Observer.
func (c *Controller) OnChange(ctx context.Context, field form.FieldID, _ any) error {
	var errs []error
	for _, lv := range c.levels {
		if !lv.dependsOn(field) {
			continue
		}

		lv.invalidate()
		// The reset is dispatched back here, clearing the level's own dependents.
		if err := c.form.Reset(ctx, lv.Field()); err != nil {
			errs = append(errs, err)
		}

		if err := c.loadIfReady(ctx, lv); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Init loads every root level concurrently.
func (c *Controller) Init(ctx context.Context) error {
	var g errgroup.Group
	values := c.form.Values()
	for _, lv := range c.levels {
		if len(lv.Parents()) > 0 {
			continue
		}
		lv := lv
		g.Go(func() error {
			return c.load(ctx, lv, values)
		})
	}
	return g.Wait()
}

// Retry re-runs the fetch of field's level with the current parent values.
func (c *Controller) Retry(ctx context.Context, field form.FieldID) error {
	for _, lv := range c.levels {
		if lv.Field() == field {
			return c.loadIfReady(ctx, lv)
		}
	}
	return fmt.Errorf("no option list for field %q", field)
}

func (c *Controller) loadIfReady(ctx context.Context, lv Lister) error {
	values := c.form.Values()
	for _, p := range lv.Parents() {
		if !values.Has(p) {
			return nil
		}
	}
	return c.load(ctx, lv, values)
}

func (c *Controller) load(ctx context.Context, lv Lister, values form.Values) error {
	c.logger.Debug("Loading options", map[string]interface{}{"field": string(lv.Field())})
	if err := lv.load(ctx, values); err != nil {
		c.logger.Warn("Option list unavailable", map[string]interface{}{
			"field": string(lv.Field()),
			"error": err.Error(),
		})
		return err
	}
	return nil
}
