package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"evalgo.org/zabbixctl/pkg/zabbix"
)

// HostGroupReconciler converges host groups. A group has no attributes
// beyond its name, so reconciliation reduces to an existence check.
type HostGroupReconciler struct {
	client *zabbix.Client
	logger *zap.SugaredLogger
}

// NewHostGroup creates a host group reconciler.
func NewHostGroup(client *zabbix.Client, logger *zap.SugaredLogger) *HostGroupReconciler {
	return &HostGroupReconciler{
		client: client,
		logger: logger,
	}
}

// Exists reports whether a group with the given name exists on the server.
func (r *HostGroupReconciler) Exists(ctx context.Context, name string) (bool, error) {
	groups, err := r.client.HostGroupGet(ctx, name)
	if err != nil {
		return false, err
	}
	return len(groups) > 0, nil
}

// Create ensures the group exists. Creating an existing group is a no-op.
func (r *HostGroupReconciler) Create(ctx context.Context, name string) (Result, error) {
	exists, err := r.Exists(ctx, name)
	if err != nil {
		return Result{}, err
	}
	if exists {
		return Result{Message: fmt.Sprintf("host group %q already exists", name)}, nil
	}

	if err := r.client.HostGroupCreate(ctx, name); err != nil {
		return Result{}, err
	}

	r.logger.Infow("host group created", "name", name)
	return Result{Changed: true, Message: fmt.Sprintf("host group %q created", name)}, nil
}

// Delete ensures the group is absent. Deleting a nonexistent group is a
// no-op.
func (r *HostGroupReconciler) Delete(ctx context.Context, name string) (Result, error) {
	groups, err := r.client.HostGroupGet(ctx, name)
	if err != nil {
		return Result{}, err
	}
	if len(groups) == 0 {
		return Result{Message: fmt.Sprintf("host group %q does not exist", name)}, nil
	}

	if err := r.client.HostGroupDelete(ctx, groups[0].GroupID); err != nil {
		return Result{}, err
	}

	r.logger.Infow("host group deleted", "name", name, "groupid", groups[0].GroupID)
	return Result{Changed: true, Message: fmt.Sprintf("host group %q deleted", name)}, nil
}
