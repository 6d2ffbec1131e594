package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/repos"
	"github.com/bramwell/claimsdesk-backend/internal/repos/testutil"
	"github.com/bramwell/claimsdesk-backend/internal/requestdata"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

type fakeMail struct {
	sent [][]string
}

func (f *fakeMail) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	f.sent = append(f.sent, to)
	return nil
}

func newApplicationFixture(t *testing.T) (*gorm.DB, ApplicationService, *fakeMail) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	mail := &fakeMail{}
	svc := NewApplicationService(
		db,
		log,
		repos.NewApplicationRepo(db, log),
		repos.NewApplicationStatusRepo(db, log),
		repos.NewApplicationTypeRepo(db, log),
		repos.NewApplicationLogRepo(db, log),
		repos.NewClientRepo(db, log),
		repos.NewInsuranceProviderRepo(db, log),
		repos.NewUserRepo(db, log),
		mail,
	)
	return db, svc, mail
}

func authedContext(userID uint, role string) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID, Role: role})
}

func TestCreateApplicationResolvesPendingStatusLazily(t *testing.T) {
	db, svc, _ := newApplicationFixture(t)
	ctx := authedContext(1, types.RoleAdmin)

	application, err := svc.Create(ctx, CreateApplicationInput{
		Client: types.Client{FirstName: "Jo", LastName: "Client", Email: "jo@example.com"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var status types.ApplicationStatus
	if err := db.First(&status, application.StatusID).Error; err != nil {
		t.Fatalf("load status: %v", err)
	}
	if status.Name != types.StatusPending {
		t.Fatalf("want new application pending, got %q", status.Name)
	}

	var logCount int64
	if err := db.Model(&types.ApplicationLog{}).Where("application_id = ?", application.ID).Count(&logCount).Error; err != nil {
		t.Fatalf("count logs: %v", err)
	}
	if logCount != 1 {
		t.Fatalf("want creation logged, got %d entries", logCount)
	}
}

func TestCreateApplicationRequiresAuth(t *testing.T) {
	_, svc, _ := newApplicationFixture(t)
	_, err := svc.Create(context.Background(), CreateApplicationInput{
		Client: types.Client{FirstName: "Jo", Email: "jo@example.com"},
	})
	if err == nil {
		t.Fatalf("want unauthenticated create rejected")
	}
}

func TestChangeStatusReusesExistingStatusRow(t *testing.T) {
	db, svc, _ := newApplicationFixture(t)
	ctx := authedContext(1, types.RoleAdmin)

	application, err := svc.Create(ctx, CreateApplicationInput{
		Client: types.Client{FirstName: "Jo", LastName: "Client", Email: "jo@example.com"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.ChangeStatus(ctx, application.ID, types.StatusScheduled); err != nil {
		t.Fatalf("change status: %v", err)
	}
	if err := svc.ChangeStatus(ctx, application.ID, types.StatusPending); err != nil {
		t.Fatalf("change status back: %v", err)
	}

	var statusCount int64
	if err := db.Model(&types.ApplicationStatus{}).Count(&statusCount).Error; err != nil {
		t.Fatalf("count statuses: %v", err)
	}
	if statusCount != 2 {
		t.Fatalf("status rows should be reused, got %d", statusCount)
	}

	if err := svc.ChangeStatus(ctx, application.ID, "Archived"); err == nil {
		t.Fatalf("want unknown status rejected")
	}
}

func TestAssignAssessorEnforcesRoleAndNotifies(t *testing.T) {
	db, svc, mail := newApplicationFixture(t)
	ctx := authedContext(1, types.RoleAdmin)

	admin := types.User{FirstName: "Root", LastName: "Admin", Email: "root@example.com", Password: "x", Role: types.RoleAdmin}
	assessor := types.User{FirstName: "Field", LastName: "Assessor", Email: "field@example.com", Password: "x", Role: types.RoleAssessor}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if err := db.Create(&assessor).Error; err != nil {
		t.Fatalf("seed assessor: %v", err)
	}

	application, err := svc.Create(ctx, CreateApplicationInput{
		Client: types.Client{FirstName: "Jo", LastName: "Client", Email: "jo@example.com"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.AssignAssessor(ctx, application.ID, admin.ID); err == nil {
		t.Fatalf("want non-assessor rejected")
	}
	if err := svc.AssignAssessor(ctx, application.ID, assessor.ID); err != nil {
		t.Fatalf("assign assessor: %v", err)
	}

	var got types.Application
	if err := db.First(&got, application.ID).Error; err != nil {
		t.Fatalf("load application: %v", err)
	}
	if got.AssessorID == nil || *got.AssessorID != assessor.ID {
		t.Fatalf("assessor not stored: %+v", got.AssessorID)
	}
	if got.DateAssigned == nil {
		t.Fatalf("assignment date not stamped")
	}

	if len(mail.sent) != 1 || mail.sent[0][0] != "field@example.com" {
		t.Fatalf("want assignment notice sent to assessor, got %v", mail.sent)
	}
}
