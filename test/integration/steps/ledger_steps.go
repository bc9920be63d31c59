package steps

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/integration/adapters"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

const dateLayout = "2006-01-02"

// registerLedgerSteps registers fixture, engine and delivery steps.
func registerLedgerSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^today is "([^"]*)"$`, todayIs)
	ctx.Step(`^a user "([^"]*)" exists$`, aUserExists)
	ctx.Step(`^"([^"]*)" has turned off (email notifications|goal alerts|recurring reminders)$`, userHasTurnedOff)
	ctx.Step(`^I am authenticated as "([^"]*)"$`, iAmAuthenticatedAs)
	ctx.Step(`^I am not authenticated$`, iAmNotAuthenticated)
	ctx.Step(`^"([^"]*)" has a category "([^"]*)"$`, userHasACategory)
	ctx.Step(`^"([^"]*)" has a (DAILY|WEEKLY|MONTHLY|YEARLY) saving plan "([^"]*)" of "([^"]*)" due "([^"]*)"$`, userHasASavingPlan)

	ctx.Step(`^the task worker runs$`, theTaskWorkerRuns)
	ctx.Step(`^(\d+) minutes? pass(?:es)?$`, minutesPass)
	ctx.Step(`^the recurring scheduler runs$`, theRecurringSchedulerRuns)
	ctx.Step(`^the overdue savings sweep runs$`, theOverdueSavingsSweepRuns)
	ctx.Step(`^the savings progress check runs$`, theSavingsProgressCheckRuns)

	ctx.Step(`^the email provider fails the next (\d+) requests? with status (\d+)$`, theEmailProviderFails)
	ctx.Step(`^"([^"]*)" should have received (\d+) "([^"]*)" emails?$`, userShouldHaveReceived)
	ctx.Step(`^"([^"]*)" should have received no emails$`, userShouldHaveReceivedNoEmails)
	ctx.Step(`^(\d+) "([^"]*)" tasks? should be "([^"]*)"$`, tasksShouldBe)

	ctx.Step(`^the "([^"]*)" budget for (\d{4})-(\d{2}) should show "([^"]*)" spent$`, theBudgetShouldShowSpent)
	ctx.Step(`^the saving plan "([^"]*)" should be "([^"]*)" with deadline "([^"]*)"$`, theSavingPlanShouldBe)
}

func emailFor(name string) string {
	return strings.ToLower(name) + "@example.com"
}

func todayIs(ctx context.Context, date string) error {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return err
	}
	GetTestContext(ctx).clock.SetCurrentTime(day.Add(9 * time.Hour))
	return nil
}

func aUserExists(ctx context.Context, name string) error {
	tc := GetTestContext(ctx)
	user := entity.NewUser(emailFor(name), name)
	if err := tc.inj.DB.WithContext(ctx).Create(model.UserFromEntity(user)).Error; err != nil {
		return err
	}
	tc.users[name] = user.ID
	tc.refs[name] = user.ID
	return nil
}

func userHasTurnedOff(ctx context.Context, name, setting string) error {
	tc := GetTestContext(ctx)
	id, ok := tc.users[name]
	if !ok {
		return fmt.Errorf("unknown user %q", name)
	}
	column := strings.ReplaceAll(setting, " ", "_")
	return tc.inj.DB.WithContext(ctx).Model(&model.UserModel{}).Where("id = ?", id).Update(column, false).Error
}

func iAmAuthenticatedAs(ctx context.Context, name string) error {
	tc := GetTestContext(ctx)
	id, ok := tc.users[name]
	if !ok {
		return fmt.Errorf("unknown user %q", name)
	}
	token, err := adapters.NewTokenService(testJWTSecret, testJWTIssuer).IssueAccessToken(id, emailFor(name), time.Hour)
	if err != nil {
		return err
	}
	tc.accessToken = token
	return nil
}

func iAmNotAuthenticated(ctx context.Context) error {
	GetTestContext(ctx).accessToken = ""
	return nil
}

func userHasACategory(ctx context.Context, name, category string) error {
	tc := GetTestContext(ctx)
	id, ok := tc.users[name]
	if !ok {
		return fmt.Errorf("unknown user %q", name)
	}
	c := entity.NewCategory(id, category, "")
	if err := tc.inj.DB.WithContext(ctx).Create(model.CategoryFromEntity(c)).Error; err != nil {
		return err
	}
	tc.refs[category] = c.ID
	return nil
}

func userHasASavingPlan(ctx context.Context, name, frequency, plan, amount, deadline string) error {
	tc := GetTestContext(ctx)
	id, ok := tc.users[name]
	if !ok {
		return fmt.Errorf("unknown user %q", name)
	}
	target, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	due, err := time.Parse(dateLayout, deadline)
	if err != nil {
		return err
	}
	p := entity.NewSavingPlan(id, plan, target, due, entity.Frequency(frequency))
	if err := tc.inj.DB.WithContext(ctx).Create(model.SavingPlanFromEntity(p)).Error; err != nil {
		return err
	}
	tc.refs[plan] = p.ID
	return nil
}

func theTaskWorkerRuns(ctx context.Context) error {
	GetTestContext(ctx).worker.Drain(ctx)
	return nil
}

func minutesPass(ctx context.Context, minutes int) error {
	GetTestContext(ctx).queueClock.Advance(time.Duration(minutes) * time.Minute)
	return nil
}

func theRecurringSchedulerRuns(ctx context.Context) error {
	tc := GetTestContext(ctx)
	_, err := tc.inj.Scheduler.ProcessDue(ctx, tc.clock.Now())
	return err
}

func theOverdueSavingsSweepRuns(ctx context.Context) error {
	tc := GetTestContext(ctx)
	_, err := tc.inj.Lifecycle.SweepOverdue(ctx, tc.clock.Today())
	return err
}

func theSavingsProgressCheckRuns(ctx context.Context) error {
	tc := GetTestContext(ctx)
	_, err := tc.inj.Lifecycle.CheckProgress(ctx, tc.clock.Today())
	return err
}

func theEmailProviderFails(ctx context.Context, count, status int) error {
	emailAPI.FailNext(http.MethodPost, "/emails", status, count)
	return nil
}

// emailsTo returns the subjects of the emails delivered to a user.
func emailsTo(name string) []string {
	var subjects []string
	for _, req := range emailAPI.GetRequests(http.MethodPost, "/emails") {
		to, _ := req["to"].([]interface{})
		for _, addr := range to {
			if strings.Contains(fmt.Sprintf("%v", addr), emailFor(name)) {
				subject, _ := req["subject"].(string)
				subjects = append(subjects, subject)
			}
		}
	}
	return subjects
}

func userShouldHaveReceived(ctx context.Context, name string, count int, template string) error {
	t := entity.NotificationTemplate(template)
	if !t.IsValid() {
		return fmt.Errorf("unknown template %q", template)
	}
	got := 0
	for _, subject := range emailsTo(name) {
		if subject == t.Subject() {
			got++
		}
	}
	if got != count {
		return fmt.Errorf("expected %d %q emails to %s, got %d (all: %v)", count, template, name, got, emailsTo(name))
	}
	return nil
}

func userShouldHaveReceivedNoEmails(ctx context.Context, name string) error {
	if subjects := emailsTo(name); len(subjects) > 0 {
		return fmt.Errorf("expected no emails to %s, got %v", name, subjects)
	}
	return nil
}

func tasksShouldBe(ctx context.Context, count int, name, status string) error {
	tc := GetTestContext(ctx)
	var got int64
	err := tc.inj.DB.WithContext(ctx).Model(&model.TaskModel{}).
		Where("name = ? AND status = ?", name, status).
		Count(&got).Error
	if err != nil {
		return err
	}
	if int(got) != count {
		return fmt.Errorf("expected %d %s tasks in %s, got %d", count, name, status, got)
	}
	return nil
}

func theBudgetShouldShowSpent(ctx context.Context, category string, year, month int, spent string) error {
	tc := GetTestContext(ctx)
	categoryID, ok := tc.refs[category]
	if !ok {
		return fmt.Errorf("unknown category %q", category)
	}
	var owner model.CategoryModel
	if err := tc.inj.DB.WithContext(ctx).First(&owner, "id = ?", categoryID).Error; err != nil {
		return err
	}

	b, err := tc.inj.UnitOfWork.Repositories().Budgets.FindByPeriod(ctx, owner.UserID, categoryID, month, year)
	if err != nil {
		return err
	}
	if b == nil {
		return fmt.Errorf("no active budget for %s in %d-%02d", category, year, month)
	}
	if got := b.SpentAmount.StringFixed(2); got != spent {
		return fmt.Errorf("expected %s spent, got %s", spent, got)
	}
	return nil
}

func theSavingPlanShouldBe(ctx context.Context, name, status, deadline string) error {
	tc := GetTestContext(ctx)
	id, ok := tc.refs[name]
	if !ok {
		return fmt.Errorf("unknown saving plan %q", name)
	}
	plan, err := tc.inj.UnitOfWork.Repositories().SavingPlans.FindByID(ctx, id, adapter.OnlyActive)
	if err != nil {
		return err
	}
	if string(plan.Status) != status {
		return fmt.Errorf("expected status %s, got %s", status, plan.Status)
	}
	if got := plan.CurrentDeadline.Format(dateLayout); got != deadline {
		return fmt.Errorf("expected deadline %s, got %s", deadline, got)
	}
	return nil
}
