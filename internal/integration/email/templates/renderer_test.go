package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_RendersEveryTemplate(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	names := []string{
		"budget_warning",
		"budget_exceeded",
		"savings_completed",
		"savings_overdue_extended",
		"savings_behind_schedule",
		"recurring_transaction_created",
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			assert.True(t, renderer.Has(name))

			html, text, err := renderer.Render(name, map[string]interface{}{
				"recipient_name": "Ana",
				"plan_name":      "Vacation",
				"category_name":  "Food",
			})
			require.NoError(t, err)
			assert.Contains(t, html, "Ana")
			assert.Contains(t, text, "Ana")
		})
	}
}

func TestRenderer_BudgetWarningData(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	html, text, err := renderer.Render("budget_warning", map[string]interface{}{
		"recipient_name": "Ana",
		"category_name":  "Groceries",
		"month_name":     "March",
		"year":           2024,
		"budget_amount":  "500.00",
		"spent_amount":   "425.00",
		"percentage":     85,
		"remaining":      "75.00",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "85%")
	assert.Contains(t, html, "March 2024")
	assert.Contains(t, text, "Remaining: 75.00")
}

func TestRenderer_EscapesHTML(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	html, _, err := renderer.Render("savings_completed", map[string]interface{}{
		"recipient_name": "Ana",
		"plan_name":      "<script>alert(1)</script>",
		"target_amount":  "100.00",
		"total_saved":    "100.00",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	assert.False(t, renderer.Has("password_reset"))
	_, _, err = renderer.Render("password_reset", nil)
	assert.Error(t, err)
}
