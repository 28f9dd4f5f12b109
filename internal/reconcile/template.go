package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"evalgo.org/zabbixctl/internal/validation"
	"evalgo.org/zabbixctl/models"
	"evalgo.org/zabbixctl/pkg/zabbix"
)

// defaultGroupID is the host group newly created templates are placed in.
const defaultGroupID = "1"

// TemplateReconciler converges one template: its existence and, when a
// desired export document is supplied, its configured items, triggers and
// graphs.
type TemplateReconciler struct {
	client  *zabbix.Client
	logger  *zap.SugaredLogger
	name    string
	desired string
}

// NewTemplate creates a template reconciler. Parameters are validated here;
// an invalid desired state fails before any network call.
func NewTemplate(client *zabbix.Client, v *validation.Validator, logger *zap.SugaredLogger, params *models.TemplateParams) (*TemplateReconciler, error) {
	if err := v.ValidateTemplate(params).Err(); err != nil {
		return nil, err
	}

	r := &TemplateReconciler{
		client:  client,
		logger:  logger,
		name:    params.Name,
		desired: params.JSON,
	}

	// Reject a desired document declaring a different template name before
	// anything is sent to the server.
	if err := r.checkDeclaredName(); err != nil {
		return nil, err
	}
	return r, nil
}

// GetID resolves the template name to its server-side id.
func (r *TemplateReconciler) GetID(ctx context.Context) (string, error) {
	templates, err := r.client.TemplateGet(ctx, r.name)
	if err != nil {
		return "", err
	}
	if len(templates) == 0 {
		return "", &NotFoundError{Kind: "template", Name: r.name}
	}
	return templates[0].TemplateID, nil
}

// Dump exports the template's current configuration document. The document
// is returned in the result message.
func (r *TemplateReconciler) Dump(ctx context.Context) (Result, error) {
	id, err := r.GetID(ctx)
	if err != nil {
		return Result{}, err
	}

	document, err := r.client.ConfigurationExport(ctx, id)
	if err != nil {
		return Result{}, err
	}
	return Result{Message: document}, nil
}

// Diff compares the desired export document against a fresh export of the
// template and imports the desired one when they differ. An empty desired
// document is a no-op.
func (r *TemplateReconciler) Diff(ctx context.Context) (Result, error) {
	if r.desired == "" {
		return Result{Message: fmt.Sprintf("template %q: no desired document, nothing to compare", r.name)}, nil
	}

	id, err := r.GetID(ctx)
	if err != nil {
		return Result{}, err
	}

	current, err := r.client.ConfigurationExport(ctx, id)
	if err != nil {
		return Result{}, err
	}

	equal, err := exportsEqual(current, r.desired)
	if err != nil {
		return Result{}, err
	}
	if equal {
		return Result{Message: fmt.Sprintf("template %q matches the desired document", r.name)}, nil
	}

	if err := r.client.ConfigurationImport(ctx, r.desired); err != nil {
		return Result{}, err
	}

	r.logger.Infow("template imported", "name", r.name)
	return Result{Changed: true, Message: fmt.Sprintf("template %q updated from desired document", r.name)}, nil
}

// Create ensures the template exists. An existing template is diffed against
// the desired document instead; a new one is created in the default group
// and populated via import when a document was supplied.
func (r *TemplateReconciler) Create(ctx context.Context) (Result, error) {
	templates, err := r.client.TemplateGet(ctx, r.name)
	if err != nil {
		return Result{}, err
	}
	if len(templates) > 0 {
		return r.Diff(ctx)
	}

	if err := r.client.TemplateCreate(ctx, r.name, defaultGroupID); err != nil {
		return Result{}, err
	}
	r.logger.Infow("template created", "name", r.name)

	if r.desired != "" {
		if err := r.client.ConfigurationImport(ctx, r.desired); err != nil {
			return Result{}, err
		}
		r.logger.Infow("template imported", "name", r.name)
	}

	return Result{Changed: true, Message: fmt.Sprintf("template %q created", r.name)}, nil
}

// Delete ensures the template is absent.
func (r *TemplateReconciler) Delete(ctx context.Context) (Result, error) {
	templates, err := r.client.TemplateGet(ctx, r.name)
	if err != nil {
		return Result{}, err
	}
	if len(templates) == 0 {
		return Result{Message: fmt.Sprintf("template %q does not exist", r.name)}, nil
	}

	if err := r.client.TemplateDelete(ctx, templates[0].TemplateID); err != nil {
		return Result{}, err
	}

	r.logger.Infow("template deleted", "name", r.name, "templateid", templates[0].TemplateID)
	return Result{Changed: true, Message: fmt.Sprintf("template %q deleted", r.name)}, nil
}

// checkDeclaredName verifies that the desired document, if it declares a
// template name at all, declares the reconciled one.
func (r *TemplateReconciler) checkDeclaredName() error {
	if r.desired == "" {
		return nil
	}

	doc, err := parseExport(r.desired)
	if err != nil {
		return fmt.Errorf("template %q: desired document: %w", r.name, err)
	}

	declared, ok := declaredName(doc)
	if ok && declared != r.name {
		return fmt.Errorf("template %q: desired document declares template %q", r.name, declared)
	}
	return nil
}

// parseExport parses an export document into a generic JSON tree.
func parseExport(document string) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(document), &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return doc, nil
}

// stripDate removes the volatile export timestamp so that documents exported
// at different times still compare equal.
func stripDate(doc map[string]interface{}) {
	export, ok := doc["zabbix_export"].(map[string]interface{})
	if !ok {
		return
	}
	delete(export, "date")
}

// declaredName extracts the template name declared in an export document.
func declaredName(doc map[string]interface{}) (string, bool) {
	export, ok := doc["zabbix_export"].(map[string]interface{})
	if !ok {
		return "", false
	}
	templates, ok := export["templates"].([]interface{})
	if !ok || len(templates) == 0 {
		return "", false
	}
	first, ok := templates[0].(map[string]interface{})
	if !ok {
		return "", false
	}
	for _, key := range []string{"template", "name"} {
		if name, ok := first[key].(string); ok && name != "" {
			return name, true
		}
	}
	return "", false
}

// exportsEqual compares two export documents structurally, ignoring the
// volatile date field on both sides.
func exportsEqual(current, desired string) (bool, error) {
	currentDoc, err := parseExport(current)
	if err != nil {
		return false, fmt.Errorf("exported document: %w", err)
	}
	desiredDoc, err := parseExport(desired)
	if err != nil {
		return false, fmt.Errorf("desired document: %w", err)
	}

	stripDate(currentDoc)
	stripDate(desiredDoc)

	return reflect.DeepEqual(currentDoc, desiredDoc), nil
}
