package leave

import "strings"

var typeLabels = []struct {
	typ   Type
	label string
}{
	{TypeVacation, "Vacation Leave"},
	{TypeSick, "Sick Leave"},
	{TypeUnpaid, "Emergency Leave"},
}

// Label returns the display label of t. Custom has no fixed label.
func (t Type) Label() string {
	for _, l := range typeLabels {
		if l.typ == t {
			return l.label
		}
	}
	return string(t)
}

// TypeFromLabel maps a display label, or a bare type name, back to a Type.
// Unknown labels are Custom.
func TypeFromLabel(label string) Type {
	label = strings.TrimSpace(label)
	for _, l := range typeLabels {
		if strings.EqualFold(l.label, label) || strings.EqualFold(string(l.typ), label) {
			return l.typ
		}
	}
	if strings.EqualFold(label, "Emergency") {
		return TypeUnpaid
	}
	return TypeCustom
}
