package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/roster-service/internal/api/dto"
	"github.com/spec-kit/roster-service/internal/auth"
	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/events"
	"github.com/spec-kit/roster-service/internal/roster"
	"github.com/spec-kit/roster-service/internal/service"
	apperrors "github.com/spec-kit/roster-service/pkg/util/errorutil"
)

const dateLayout = "2006-01-02"

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{"param": name})
	}
	return id, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func parseDate(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseCSV(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseIDList(val string) []int64 {
	var out []int64
	for _, part := range parseCSV(val) {
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			out = append(out, id)
		}
	}
	return out
}

// actorFromPrincipal resolves the event actor for the authenticated caller.
func actorFromPrincipal(c *fiber.Ctx) (events.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return events.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	if principal.Admin != nil {
		return service.AdminActor(principal.Admin), nil
	}
	if principal.Staff != nil {
		return service.StaffActor(principal.Staff), nil
	}
	return events.Actor{}, apperrors.NewUnauthorized("authentication required")
}

// toChangeSet converts a request change-set, parsing date arms. Field and
// kind validation is the domain's job; here only the date syntax is checked.
func toChangeSet(req dto.ChangeSetRequest) (domain.ChangeSet, error) {
	cs := make(domain.ChangeSet, len(req))
	for field, value := range req {
		fv := domain.FieldValue{Text: value.Text, Ref: value.Ref}
		if value.Date != nil {
			parsed, err := time.Parse(dateLayout, *value.Date)
			if err != nil {
				return nil, apperrors.NewValidationError("invalid date", map[string]any{"field": field, "value": *value.Date})
			}
			fv.Date = &parsed
		}
		cs[domain.EditField(field)] = fv
	}
	return cs, nil
}

func staffSummary(rec *domain.StaffRecord) dto.StaffSummary {
	summary := dto.StaffSummary{
		ID:          rec.ID,
		NISNo:       rec.NISNo,
		Surname:     rec.Surname,
		OtherNames:  rec.OtherNames,
		Rank:        rec.Rank,
		Gender:      rec.Gender,
		Office:      rec.Office,
		FormationID: rec.FormationID,
		DOPA:        rec.DOPA,
		DOPP:        rec.DOPP,
		ExitDate:    rec.ExitDate,
		Complete:    roster.IsComplete(rec),
		Role:        string(rec.Role),
	}
	if rec.ExitMode != nil {
		mode := string(*rec.ExitMode)
		summary.ExitMode = &mode
	}
	if due, ok := roster.RetirementDate(rec); ok {
		summary.RetirementDate = &due
	}
	return summary
}

func staffDetail(rec *domain.StaffRecord) dto.StaffDetail {
	return dto.StaffDetail{
		StaffSummary:     staffSummary(rec),
		DOFA:             rec.DOFA,
		DOB:              rec.DOB,
		StateID:          rec.StateID,
		LGAID:            rec.LGAID,
		HomeTown:         rec.HomeTown,
		Qualification:    rec.Qualification,
		PhoneNo:          rec.PhoneNo,
		NextOfKin:        rec.NextOfKin,
		NOKPhone:         rec.NOKPhone,
		Remark:           rec.Remark,
		OutRequestStatus: rec.OutRequestStatus,
		OutRequestDate:   rec.OutRequestDate,
		OutRequestReason: rec.OutRequestReason,
		AllowEditRank:    rec.AllowEditRank,
		AllowEditDOPP:    rec.AllowEditDOPP,
		AllowLogin:       rec.AllowLogin,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
}

func editRequestResponse(req *domain.EditRequest) dto.EditRequestResponse {
	return dto.EditRequestResponse{
		ID:          req.ID,
		StaffID:     req.StaffID,
		Changes:     req.Changes,
		Status:      req.Status,
		SubmittedBy: req.SubmittedBy,
		SubmittedAt: req.SubmittedAt,
		ResolvedBy:  req.ResolvedBy,
		ResolvedAt:  req.ResolvedAt,
	}
}

func formationResponse(f *domain.Formation) dto.FormationResponse {
	return dto.FormationResponse{
		ID:        f.ID,
		Name:      f.Name,
		Code:      f.Code,
		Type:      f.Type,
		ParentID:  f.ParentID,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func officeResponse(o *domain.Office) dto.OfficeResponse {
	return dto.OfficeResponse{
		ID:          o.ID,
		Name:        o.Name,
		FormationID: o.FormationID,
		Type:        o.Type,
		ParentID:    o.ParentID,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func notificationResponse(n *domain.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Message:   n.Message,
		BatchID:   n.BatchID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
