package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/adanyl0v/go-daily-todo/internal/models"
	"github.com/adanyl0v/go-daily-todo/internal/services"
)

type taskRow struct {
	ID           int64          `db:"id"`
	UserID       int64          `db:"user_id"`
	ParentID     sql.NullInt64  `db:"parent_id"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	Deadline     sql.NullString `db:"deadline"`
	CreatedDate  string         `db:"created_date"`
	Completed    bool           `db:"completed"`
	SubtaskCount int            `db:"subtask_count"`
}

func (r taskRow) toModel() (*models.Task, error) {
	task := &models.Task{
		ID:           r.ID,
		UserID:       r.UserID,
		Title:        r.Title,
		Description:  r.Description,
		Completed:    r.Completed,
		SubtaskCount: r.SubtaskCount,
	}
	if r.ParentID.Valid {
		parentID := r.ParentID.Int64
		task.ParentID = &parentID
	}
	if r.Deadline.Valid {
		deadline, err := models.ParseDate(r.Deadline.String)
		if err != nil {
			return nil, fmt.Errorf("invalid deadline in db: %w", err)
		}
		task.Deadline = &deadline
	}

	createdDate, err := models.ParseDate(r.CreatedDate)
	if err != nil {
		return nil, fmt.Errorf("invalid created date in db: %w", err)
	}
	task.CreatedDate = createdDate
	return task, nil
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: models.FormatDate(*t), Valid: true}
}

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	var parentID sql.NullInt64
	if task.ParentID != nil {
		parentID = sql.NullInt64{Int64: *task.ParentID, Valid: true}
	}

	res, err := s.db.ExecContext(
		ctx,
		insertTaskQuery,
		task.UserID,
		parentID,
		task.Title,
		task.Description,
		nullDate(task.Deadline),
		models.FormatDate(task.CreatedDate),
		task.Completed,
	)
	if err != nil {
		return unavailable("insert task", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return unavailable("get last insert id", err)
	}
	task.ID = id
	return nil
}

func (s *Storage) GetTask(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	var row taskRow
	err := s.db.GetContext(ctx, &row, getTaskQuery, taskID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.ErrTaskNotFound
		}
		return nil, unavailable("select task", err)
	}
	return row.toModel()
}

func (s *Storage) UpdateTask(ctx context.Context, task *models.Task) error {
	res, err := s.db.ExecContext(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		nullDate(task.Deadline),
		task.ID,
		task.UserID,
	)
	if err != nil {
		return unavailable("update task", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("get rows affected", err)
	}
	if n == 0 {
		return services.ErrTaskNotFound
	}
	return nil
}

func (s *Storage) ToggleTaskCompleted(ctx context.Context, userID, taskID int64) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, unavailable("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, toggleTaskQuery, taskID, userID)
	if err != nil {
		return false, unavailable("toggle task", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, unavailable("get rows affected", err)
	}
	if n == 0 {
		return false, services.ErrTaskNotFound
	}

	var completed bool
	err = tx.GetContext(ctx, &completed, getTaskCompletedQuery, taskID, userID)
	if err != nil {
		return false, unavailable("select task completed", err)
	}

	err = tx.Commit()
	if err != nil {
		return false, unavailable("commit transaction", err)
	}
	return completed, nil
}

func (s *Storage) DeleteTask(ctx context.Context, userID, taskID int64) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, unavailable("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, deleteSubtasksQuery, taskID, userID)
	if err != nil {
		return 0, unavailable("delete subtasks", err)
	}
	subtasks, err := res.RowsAffected()
	if err != nil {
		return 0, unavailable("get rows affected", err)
	}

	res, err = tx.ExecContext(ctx, deleteTaskQuery, taskID, userID)
	if err != nil {
		return 0, unavailable("delete task", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, unavailable("get rows affected", err)
	}

	err = tx.Commit()
	if err != nil {
		return 0, unavailable("commit transaction", err)
	}

	if deleted == 0 {
		return subtasks, services.ErrTaskNotFound
	}
	return subtasks, nil
}

func (s *Storage) ListTopLevelTasksByDate(ctx context.Context, userID int64, date time.Time, completed bool) ([]*models.Task, error) {
	return s.selectTasks(ctx, getTopLevelTasksByDateQuery, userID, models.FormatDate(date), completed)
}

func (s *Storage) ListIncompleteTasksBefore(ctx context.Context, userID int64, date time.Time) ([]*models.Task, error) {
	return s.selectTasks(ctx, getIncompleteTasksBeforeQuery, userID, models.FormatDate(date))
}

func (s *Storage) selectTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	var rows []taskRow
	err := s.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, unavailable("select tasks", err)
	}

	tasks := make([]*models.Task, 0, len(rows))
	for _, row := range rows {
		task, err := row.toModel()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (s *Storage) ListSubtasks(ctx context.Context, userID, parentID int64) ([]models.Subtask, error) {
	var rows []struct {
		ID        int64  `db:"id"`
		Title     string `db:"title"`
		Completed bool   `db:"completed"`
	}
	err := s.db.SelectContext(ctx, &rows, getSubtasksQuery, parentID, userID)
	if err != nil {
		return nil, unavailable("select subtasks", err)
	}

	subtasks := make([]models.Subtask, 0, len(rows))
	for _, row := range rows {
		subtasks = append(subtasks, models.Subtask{
			ID:        row.ID,
			Title:     row.Title,
			Completed: row.Completed,
		})
	}
	return subtasks, nil
}

func (s *Storage) CarryOverTask(ctx context.Context, userID, taskID int64, date time.Time) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, unavailable("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	day := models.FormatDate(date)
	res, err := tx.ExecContext(ctx, carryOverTaskQuery, day, taskID, userID)
	if err != nil {
		return false, unavailable("carry over task", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, unavailable("get rows affected", err)
	}
	if n == 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx, carryOverSubtasksQuery, day, taskID, userID)
	if err != nil {
		return false, unavailable("carry over subtasks", err)
	}

	err = tx.Commit()
	if err != nil {
		return false, unavailable("commit transaction", err)
	}
	return true, nil
}

func (s *Storage) CountTasks(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, countTasksQuery)
	if err != nil {
		return 0, unavailable("count tasks", err)
	}
	return count, nil
}
