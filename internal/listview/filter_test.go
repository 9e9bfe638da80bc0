package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type person struct {
	Name    string
	Email   string
	Service string
	Status  string
}

var personSchema = Schema[person]{
	SearchFields: func(p person) []string { return []string{p.Name, p.Email} },
	Categories: []CategoryFilter[person]{
		{
			Name:   "service",
			Labels: map[string]string{"VisaCanada": "Visa Canada", "Hajj": "Hajj & Omra"},
			Value:  func(p person) string { return p.Service },
		},
		{
			Name:   "status",
			Labels: map[string]string{"paid": "Paid", "pending": "Pending"},
			Value:  func(p person) string { return p.Status },
		},
	},
}

func TestMatchSearch(t *testing.T) {
	rows := []person{{Name: "Jean Martin"}, {Name: "Paul Durand"}}

	got := Apply(rows, "martin", nil, personSchema)
	assert.Equal(t, []person{{Name: "Jean Martin"}}, got)

	assert.True(t, MatchSearch("   "), "blank search matches all")
	assert.True(t, MatchSearch("ÉLODIE", "élodie kaboré"))
	assert.False(t, MatchSearch("zz", "abc", "def"))
}

func TestMatchCategoryRules(t *testing.T) {
	labels := map[string]string{"VisaCanada": "Visa Canada"}

	tests := []struct {
		name   string
		row    string
		filter string
		want   MatchRule
	}{
		{"exact value", "VisaCanada", "VisaCanada", MatchValue},
		{"row holds label", "Visa Canada", "VisaCanada", MatchLabel},
		{"case and spaces ignored", "visa  canada", "VisaCanada", MatchLabel},
		{"label without table", "Visa Canada", "visacanada", MatchLabel},
		{"containment", "Visa Canada Express", "VisaCanada", MatchContains},
		{"reverse containment", "Visa", "VisaCanada", MatchContains},
		{"no match", "Hajj", "VisaCanada", NoMatch},
		{"empty row", "", "VisaCanada", NoMatch},
		{"empty filter", "Hajj", "", NoMatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchCategory(tt.row, tt.filter, labels))
		})
	}
}

func TestApplyIsLogicalAnd(t *testing.T) {
	rows := []person{
		{Name: "Awa", Service: "Visa Canada", Status: "paid"},
		{Name: "Issa", Service: "VisaCanada", Status: "pending"},
		{Name: "Moussa", Service: "Hajj", Status: "paid"},
	}

	got := Apply(rows, "", map[string]string{"service": "VisaCanada", "status": "paid"}, personSchema)
	assert.Equal(t, []person{rows[0]}, got)

	got = Apply(rows, "", map[string]string{"service": "", "unknown": "x"}, personSchema)
	assert.Equal(t, rows, got, "empty and unknown filters are ignored")

	got = Apply(rows, "issa", map[string]string{"service": "VisaCanada"}, personSchema)
	assert.Equal(t, []person{rows[1]}, got)
}

func TestApplyIsPure(t *testing.T) {
	rows := []person{{Name: "b"}, {Name: "a"}}
	first := Apply(rows, "a", nil, personSchema)
	second := Apply(rows, "a", nil, personSchema)
	assert.Equal(t, first, second)
	assert.Equal(t, []person{{Name: "b"}, {Name: "a"}}, rows)
}

func TestCategoryOptionsSortedByLabel(t *testing.T) {
	cat, ok := personSchema.Category("service")
	assert.True(t, ok)
	assert.Equal(t, []string{"Hajj", "VisaCanada"}, cat.Options())
	assert.Equal(t, "Visa Canada", cat.Label("VisaCanada"))
	assert.Equal(t, "Other", cat.Label("Other"))

	_, ok = personSchema.Category("missing")
	assert.False(t, ok)
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, SeverityError, Severity(85, OccupancyThresholds))
	assert.Equal(t, SeverityWarning, Severity(60, OccupancyThresholds))
	assert.Equal(t, SeveritySuccess, Severity(30, OccupancyThresholds))
	assert.Equal(t, SeverityWarning, Severity(80, OccupancyThresholds), "thresholds are strict")
	assert.Equal(t, SeveritySuccess, Severity(50, OccupancyThresholds))

	assert.InDelta(t, 75.0, Rate(30, 40), 1e-9)
	assert.Zero(t, Rate(3, 0))
}
