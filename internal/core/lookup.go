package core

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// FindCertificates returns every row whose name contains query, ignoring
// case. The name and certificate link columns are required; the course
// column is optional and reported empty when absent.
func FindCertificates(t *Table, query string) (*CertificateResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &Error{Kind: KindValidation, Err: ErrMissingName}
	}

	for _, role := range []Role{RoleName, RoleCertificateLink} {
		if _, ok := t.Column(role); !ok {
			return nil, &Error{
				Kind: KindSchema,
				Op:   "certificate lookup",
				Err: fmt.Errorf("%w %s; available columns: [%s]",
					ErrMissingColumn, role, strings.Join(t.Columns(), ", ")),
			}
		}
	}

	fold := cases.Fold()
	needle := fold.String(query)

	result := &CertificateResult{Results: []Certificate{}}
	for r := 0; r < t.Len(); r++ {
		name := t.Value(r, RoleName)
		if !strings.Contains(fold.String(name), needle) {
			continue
		}
		result.Results = append(result.Results, Certificate{
			Name:   name,
			Course: t.Value(r, RoleCourse),
			Link:   t.Value(r, RoleCertificateLink),
		})
	}
	result.Total = len(result.Results)

	return result, nil
}
