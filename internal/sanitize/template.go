package sanitize

import "strings"

// ReservedPrefix marks variable names that are never substituted.
const ReservedPrefix = "_"

// Variable is a named value substituted for the placeholder {Name}.
type Variable struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Placeholder returns the literal text replaced by v.
func (v Variable) Placeholder() string {
	return "{" + v.Name + "}"
}

// Substitute replaces every {name} in body with its value, one variable at a
// time in the order given. Replacement is literal: values are not rescanned
// for placeholders of the same variable, but a later variable sees the text
// produced by earlier ones. Reserved variables and placeholders without a
// matching variable are left alone.
func Substitute(body string, vars []Variable) string {
	for _, v := range vars {
		if strings.HasPrefix(v.Name, ReservedPrefix) {
			continue
		}
		body = strings.ReplaceAll(body, v.Placeholder(), v.Value)
	}
	return body
}
