package lead

import (
	"strconv"
	"strings"
	"time"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

// ValidateAnswers checks a lead's answers against the owning client's
// service schema: every answer must name a declared field, required fields
// must be present and non-empty, and typed fields must parse.
func ValidateAnswers(svc *models.Service, answers models.JSONMap) error {
	byName := make(map[string]*models.ServiceField, len(svc.Fields))
	for i := range svc.Fields {
		byName[svc.Fields[i].Name] = &svc.Fields[i]
	}

	for name, value := range answers {
		field, ok := byName[name]
		if !ok {
			return httperr.ErrBusiness("unknown_field")
		}
		if value == "" {
			continue
		}
		if err := checkKind(field, value); err != nil {
			return err
		}
	}

	for i := range svc.Fields {
		f := &svc.Fields[i]
		if f.Required && strings.TrimSpace(answers[f.Name]) == "" {
			return httperr.ErrBusiness("missing_required_field")
		}
	}

	return nil
}

func checkKind(field *models.ServiceField, value string) error {
	switch field.Kind {
	case models.FieldKindNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return httperr.ErrBusiness("invalid_number_answer")
		}
	case models.FieldKindDate:
		if _, err := time.Parse("2006-01-02", value); err != nil {
			return httperr.ErrBusiness("invalid_date_answer")
		}
	case models.FieldKindCheckbox:
		if value != "true" && value != "false" {
			return httperr.ErrBusiness("invalid_checkbox_answer")
		}
	case models.FieldKindSelect:
		for _, opt := range strings.Split(field.Options, ",") {
			if strings.TrimSpace(opt) == value {
				return nil
			}
		}
		return httperr.ErrBusiness("invalid_select_answer")
	}
	return nil
}
