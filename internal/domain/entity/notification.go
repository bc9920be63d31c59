package entity

// NotificationTemplate identifies an email template.
type NotificationTemplate string

const (
	TemplateBudgetWarning               NotificationTemplate = "budget_warning"
	TemplateBudgetExceeded              NotificationTemplate = "budget_exceeded"
	TemplateSavingsCompleted            NotificationTemplate = "savings_completed"
	TemplateSavingsOverdueExtended      NotificationTemplate = "savings_overdue_extended"
	TemplateSavingsBehindSchedule       NotificationTemplate = "savings_behind_schedule"
	TemplateRecurringTransactionCreated NotificationTemplate = "recurring_transaction_created"
)

// NotificationPreference names the user setting that gates a template.
type NotificationPreference string

const (
	PreferenceGoalAlerts         NotificationPreference = "goal_alerts"
	PreferenceRecurringReminders NotificationPreference = "recurring_reminders"
)

var templateSubjects = map[NotificationTemplate]string{
	TemplateBudgetWarning:               "You're approaching your budget limit",
	TemplateBudgetExceeded:              "You've exceeded your budget",
	TemplateSavingsCompleted:            "Savings goal reached",
	TemplateSavingsOverdueExtended:      "Your savings deadline was extended",
	TemplateSavingsBehindSchedule:       "Your savings plan is behind schedule",
	TemplateRecurringTransactionCreated: "A recurring transaction was recorded",
}

// IsValid reports whether the template is known.
func (t NotificationTemplate) IsValid() bool {
	_, ok := templateSubjects[t]
	return ok
}

// Subject returns the email subject line for the template.
func (t NotificationTemplate) Subject() string {
	return templateSubjects[t]
}

// Preference returns the user setting that controls the template.
func (t NotificationTemplate) Preference() NotificationPreference {
	if t == TemplateRecurringTransactionCreated {
		return PreferenceRecurringReminders
	}
	return PreferenceGoalAlerts
}

// ThresholdTemplate maps a budget threshold to its template.
func ThresholdTemplate(threshold ThresholdType) NotificationTemplate {
	if threshold == ThresholdExceeded {
		return TemplateBudgetExceeded
	}
	return TemplateBudgetWarning
}
