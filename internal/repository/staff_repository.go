package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/persistence"
	"github.com/spec-kit/roster-service/internal/roster"
)

const staffColumns = `
        id, nis_no, surname, other_names, rank, gender, dofa, dopa, dopp, dob,
        state_id, lga_id, home_town, qualification, phone_no, next_of_kin, nok_phone,
        office, remark, formation_id, exit_date, exit_mode,
        out_request_status, out_request_date, out_request_reason,
        allow_edit_rank, allow_edit_dopp, allow_login, login_attempts,
        password_hash, role, created_at, updated_at`

// StaffRepository handles persistence for roster records.
type StaffRepository interface {
	Create(ctx context.Context, rec *domain.StaffRecord) error
	Update(ctx context.Context, rec *domain.StaffRecord) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.StaffRecord, error)
	GetByNIS(ctx context.Context, nisNo string) (*domain.StaffRecord, error)
	// Search applies the storage-expressible filter dimensions and returns
	// the full candidate set; ordering, derived filters and pagination are
	// the roster package's job.
	Search(ctx context.Context, q roster.Query) ([]domain.StaffRecord, error)
	// ListDueForRetirement returns active records whose stored exit date has
	// arrived: exit_mode unset, exit_date set and on or before asOf.
	ListDueForRetirement(ctx context.Context, asOf time.Time) ([]domain.StaffRecord, error)
	// ListByRole returns active records holding the given role, used by the
	// broadcast resolver against the staff directory.
	ListByRole(ctx context.Context, role domain.StaffRole) ([]domain.StaffRecord, error)
	// ListOfficeAdmins resolves office administrators by case-insensitive
	// office name within a formation; office membership is free text on the
	// record, not a foreign key.
	ListOfficeAdmins(ctx context.Context, officeName string, formationID int64) ([]domain.StaffRecord, error)
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

func (r *staffRepository) q(ctx context.Context) persistence.Querier {
	return persistence.QuerierFrom(ctx, r.pool)
}

func (r *staffRepository) Create(ctx context.Context, rec *domain.StaffRecord) error {
	const query = `
        INSERT INTO staff (nis_no, surname, other_names, rank, gender, dofa, dopa, dopp, dob,
            state_id, lga_id, home_town, qualification, phone_no, next_of_kin, nok_phone,
            office, remark, formation_id, exit_date, exit_mode,
            allow_edit_rank, allow_edit_dopp, allow_login, password_hash, role)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26)
        RETURNING id, login_attempts, created_at, updated_at`
	return r.q(ctx).QueryRow(ctx, query,
		rec.NISNo,
		rec.Surname,
		rec.OtherNames,
		rec.Rank,
		rec.Gender,
		rec.DOFA,
		rec.DOPA,
		rec.DOPP,
		rec.DOB,
		rec.StateID,
		rec.LGAID,
		rec.HomeTown,
		rec.Qualification,
		rec.PhoneNo,
		rec.NextOfKin,
		rec.NOKPhone,
		rec.Office,
		rec.Remark,
		rec.FormationID,
		rec.ExitDate,
		rec.ExitMode,
		rec.AllowEditRank,
		rec.AllowEditDOPP,
		rec.AllowLogin,
		rec.PasswordHash,
		rec.Role,
	).Scan(&rec.ID, &rec.LoginAttempts, &rec.CreatedAt, &rec.UpdatedAt)
}

func (r *staffRepository) Update(ctx context.Context, rec *domain.StaffRecord) error {
	const query = `
        UPDATE staff SET surname=$1, other_names=$2, rank=$3, gender=$4, dofa=$5, dopa=$6,
            dopp=$7, dob=$8, state_id=$9, lga_id=$10, home_town=$11, qualification=$12,
            phone_no=$13, next_of_kin=$14, nok_phone=$15, office=$16, remark=$17,
            formation_id=$18, exit_date=$19, exit_mode=$20,
            out_request_status=$21, out_request_date=$22, out_request_reason=$23,
            allow_edit_rank=$24, allow_edit_dopp=$25, allow_login=$26, login_attempts=$27,
            password_hash=$28, role=$29, updated_at=NOW()
        WHERE id=$30`
	cmd, err := r.q(ctx).Exec(ctx, query,
		rec.Surname,
		rec.OtherNames,
		rec.Rank,
		rec.Gender,
		rec.DOFA,
		rec.DOPA,
		rec.DOPP,
		rec.DOB,
		rec.StateID,
		rec.LGAID,
		rec.HomeTown,
		rec.Qualification,
		rec.PhoneNo,
		rec.NextOfKin,
		rec.NOKPhone,
		rec.Office,
		rec.Remark,
		rec.FormationID,
		rec.ExitDate,
		rec.ExitMode,
		rec.OutRequestStatus,
		rec.OutRequestDate,
		rec.OutRequestReason,
		rec.AllowEditRank,
		rec.AllowEditDOPP,
		rec.AllowLogin,
		rec.LoginAttempts,
		rec.PasswordHash,
		rec.Role,
		rec.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q(ctx).Exec(ctx, `DELETE FROM staff WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id int64) (*domain.StaffRecord, error) {
	query := `SELECT` + staffColumns + ` FROM staff WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *staffRepository) GetByNIS(ctx context.Context, nisNo string) (*domain.StaffRecord, error) {
	query := `SELECT` + staffColumns + ` FROM staff WHERE nis_no=$1`
	return r.fetchSingle(ctx, query, nisNo)
}

func (r *staffRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.StaffRecord, error) {
	row := r.q(ctx).QueryRow(ctx, query, arg)
	rec, err := scanStaff(row)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *staffRepository) Search(ctx context.Context, q roster.Query) ([]domain.StaffRecord, error) {
	base := `SELECT` + staffColumns + ` FROM staff`
	clauses := []string{"1=1"}
	args := []any{}

	if term := strings.TrimSpace(q.Search); term != "" {
		args = append(args, "%"+strings.ToLower(term)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(nis_no) LIKE %[1]s OR LOWER(surname) LIKE %[1]s OR LOWER(other_names) LIKE %[1]s OR LOWER(phone_no) LIKE %[1]s OR LOWER(office) LIKE %[1]s)",
			placeholder))
	}
	if len(q.Ranks) > 0 {
		placeholders := make([]string, len(q.Ranks))
		for i, rank := range q.Ranks {
			args = append(args, rank)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("rank IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(q.Offices) > 0 {
		placeholders := make([]string, len(q.Offices))
		for i, office := range q.Offices {
			args = append(args, strings.ToLower(office))
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("LOWER(office) IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(q.StateIDs) > 0 {
		placeholders := make([]string, len(q.StateIDs))
		for i, id := range q.StateIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("state_id IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(q.LGAIDs) > 0 {
		placeholders := make([]string, len(q.LGAIDs))
		for i, id := range q.LGAIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("lga_id IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(q.Genders) > 0 {
		placeholders := make([]string, len(q.Genders))
		for i, g := range q.Genders {
			args = append(args, strings.ToLower(g))
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("LOWER(gender) IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(q.FormationIDs) > 0 {
		placeholders := make([]string, len(q.FormationIDs))
		for i, id := range q.FormationIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("formation_id IN (%s)", strings.Join(placeholders, ",")))
	}
	if q.Status != nil {
		switch *q.Status {
		case roster.StatusActive:
			clauses = append(clauses, "exit_date IS NULL")
		case roster.StatusExited:
			clauses = append(clauses, "exit_date IS NOT NULL")
			if q.ExitedFrom != nil {
				args = append(args, *q.ExitedFrom)
				clauses = append(clauses, fmt.Sprintf("exit_date >= $%d", len(args)))
			}
			if q.ExitedTo != nil {
				args = append(args, *q.ExitedTo)
				clauses = append(clauses, fmt.Sprintf("exit_date <= $%d", len(args)))
			}
		}
	}
	if q.AppointedFrom != nil {
		args = append(args, *q.AppointedFrom)
		clauses = append(clauses, fmt.Sprintf("dopa >= $%d", len(args)))
	}
	if q.AppointedTo != nil {
		args = append(args, *q.AppointedTo)
		clauses = append(clauses, fmt.Sprintf("dopa <= $%d", len(args)))
	}

	query := base + " WHERE " + strings.Join(clauses, " AND ")
	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStaffRows(rows)
}

func (r *staffRepository) ListDueForRetirement(ctx context.Context, asOf time.Time) ([]domain.StaffRecord, error) {
	query := `SELECT` + staffColumns + `
        FROM staff
        WHERE exit_mode IS NULL AND exit_date IS NOT NULL AND exit_date <= $1
        ORDER BY exit_date, nis_no`
	rows, err := r.q(ctx).Query(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStaffRows(rows)
}

func (r *staffRepository) ListByRole(ctx context.Context, role domain.StaffRole) ([]domain.StaffRecord, error) {
	query := `SELECT` + staffColumns + ` FROM staff WHERE role=$1 AND exit_date IS NULL`
	rows, err := r.q(ctx).Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStaffRows(rows)
}

func (r *staffRepository) ListOfficeAdmins(ctx context.Context, officeName string, formationID int64) ([]domain.StaffRecord, error) {
	query := `SELECT` + staffColumns + `
        FROM staff
        WHERE LOWER(office) = LOWER($1) AND formation_id = $2 AND role = $3 AND exit_date IS NULL`
	rows, err := r.q(ctx).Query(ctx, query, officeName, formationID, domain.StaffRoleOfficeAdmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStaffRows(rows)
}

func scanStaff(row pgx.Row) (*domain.StaffRecord, error) {
	var rec domain.StaffRecord
	if err := row.Scan(
		&rec.ID,
		&rec.NISNo,
		&rec.Surname,
		&rec.OtherNames,
		&rec.Rank,
		&rec.Gender,
		&rec.DOFA,
		&rec.DOPA,
		&rec.DOPP,
		&rec.DOB,
		&rec.StateID,
		&rec.LGAID,
		&rec.HomeTown,
		&rec.Qualification,
		&rec.PhoneNo,
		&rec.NextOfKin,
		&rec.NOKPhone,
		&rec.Office,
		&rec.Remark,
		&rec.FormationID,
		&rec.ExitDate,
		&rec.ExitMode,
		&rec.OutRequestStatus,
		&rec.OutRequestDate,
		&rec.OutRequestReason,
		&rec.AllowEditRank,
		&rec.AllowEditDOPP,
		&rec.AllowLogin,
		&rec.LoginAttempts,
		&rec.PasswordHash,
		&rec.Role,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanStaffRows(rows pgx.Rows) ([]domain.StaffRecord, error) {
	var result []domain.StaffRecord
	for rows.Next() {
		rec, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	return result, rows.Err()
}
