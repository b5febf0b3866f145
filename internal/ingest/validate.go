package ingest

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their source column name.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterStructValidation(func(sl validator.StructLevel) {
		r := sl.Current().Interface().(campaignRow)
		if r.Cost != nil && r.Cost.IsNegative() {
			sl.ReportError(r.Cost, "cost", "Cost", "nonnegative", "")
		}
	}, campaignRow{})

	validate.RegisterStructValidation(func(sl validator.StructLevel) {
		c := sl.Current().Interface().(crmColumns)
		n := len(c.LeadID)
		for _, col := range []struct {
			name string
			vals []string
		}{
			{"company_size", c.CompanySize},
			{"sector", c.Sector},
			{"region", c.Region},
			{"status", c.Status},
		} {
			if col.vals != nil && len(col.vals) != n {
				sl.ReportError(col.vals, col.name, col.name, "len_lead_id", fmt.Sprint(n))
			}
		}
	}, crmColumns{})
}

// describe flattens validator errors into one line.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("missing %s", fe.Field()))
		case "nonnegative", "gte":
			msgs = append(msgs, fmt.Sprintf("negative %s", fe.Field()))
		case "gtefield":
			msgs = append(msgs, fmt.Sprintf("%s < %s", fe.Field(), strings.ToLower(fe.Param())))
		case "len_lead_id":
			msgs = append(msgs, fmt.Sprintf("column %s length differs from lead_id (%s)", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
