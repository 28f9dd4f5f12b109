package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"evalgo.org/zabbixctl/internal/validation"
	"evalgo.org/zabbixctl/models"
	"evalgo.org/zabbixctl/pkg/zabbix"
)

// Applier converges every entry of a manifest, in dependency order: host
// groups first, then templates, then hosts. The first error aborts the run;
// entries already applied stay applied.
type Applier struct {
	client    *zabbix.Client
	validator *validation.Validator
	logger    *zap.SugaredLogger
}

// Summary counts the manifest entries that were applied.
type Summary struct {
	Total   int
	Changed int
}

// NewApplier creates a manifest applier.
func NewApplier(client *zabbix.Client, v *validation.Validator, logger *zap.SugaredLogger) *Applier {
	return &Applier{
		client:    client,
		validator: v,
		logger:    logger,
	}
}

// Apply converges all manifest entries and returns how many changed.
func (a *Applier) Apply(ctx context.Context, m *models.Manifest) (Summary, error) {
	var summary Summary

	groups := NewHostGroup(a.client, a.logger)
	for i := range m.HostGroups {
		entry := &m.HostGroups[i]
		if err := a.validator.ValidateHostGroup(&entry.HostGroupParams).Err(); err != nil {
			return summary, fmt.Errorf("hostGroups[%d]: %w", i, err)
		}

		var (
			res Result
			err error
		)
		if entry.State == models.StateAbsent {
			res, err = groups.Delete(ctx, entry.Name)
		} else {
			res, err = groups.Create(ctx, entry.Name)
		}
		if err != nil {
			return summary, fmt.Errorf("hostGroups[%d]: %w", i, err)
		}
		a.record(&summary, res)
	}

	for i := range m.Templates {
		entry := &m.Templates[i]
		r, err := NewTemplate(a.client, a.validator, a.logger, &entry.TemplateParams)
		if err != nil {
			return summary, fmt.Errorf("templates[%d]: %w", i, err)
		}

		var res Result
		if entry.State == models.StateAbsent {
			res, err = r.Delete(ctx)
		} else {
			res, err = r.Create(ctx)
		}
		if err != nil {
			return summary, fmt.Errorf("templates[%d]: %w", i, err)
		}
		a.record(&summary, res)
	}

	for i := range m.Hosts {
		entry := &m.Hosts[i]
		r, err := NewHost(a.client, a.validator, a.logger, &entry.HostParams)
		if err != nil {
			return summary, fmt.Errorf("hosts[%d]: %w", i, err)
		}

		var res Result
		if entry.State == models.StateAbsent {
			res, err = r.Delete(ctx)
		} else {
			res, err = r.Create(ctx)
		}
		if err != nil {
			return summary, fmt.Errorf("hosts[%d]: %w", i, err)
		}
		a.record(&summary, res)
	}

	return summary, nil
}

func (a *Applier) record(summary *Summary, res Result) {
	summary.Total++
	if res.Changed {
		summary.Changed++
	}
	a.logger.Infow("applied", "changed", res.Changed, "message", res.Message)
}
