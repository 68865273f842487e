package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/adanyl0v/go-daily-todo/internal/models"
	"github.com/adanyl0v/go-daily-todo/internal/services"
)

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (user_id,
                   parent_id,
                   title,
                   description,
                   deadline,
                   created_date,
                   completed)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`
	err := s.pool.QueryRow(
		ctx,
		insertTaskQuery,
		task.UserID,
		task.ParentID,
		task.Title,
		task.Description,
		task.Deadline,
		task.CreatedDate,
		task.Completed,
	).Scan(&task.ID)
	if err != nil {
		return unavailable("insert task", err)
	}
	return nil
}

func (s *Storage) GetTask(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	const selectTaskQuery = `
SELECT id,
       user_id,
       parent_id,
       title,
       description,
       deadline,
       created_date,
       completed
FROM tasks
WHERE id = $1 AND user_id = $2
`
	task := new(models.Task)
	err := s.pool.QueryRow(
		ctx,
		selectTaskQuery,
		taskID,
		userID,
	).Scan(
		&task.ID,
		&task.UserID,
		&task.ParentID,
		&task.Title,
		&task.Description,
		&task.Deadline,
		&task.CreatedDate,
		&task.Completed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, services.ErrTaskNotFound
		}
		return nil, unavailable("select task", err)
	}
	return task, nil
}

func (s *Storage) UpdateTask(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    deadline = $3
WHERE id = $4 AND user_id = $5
`
	tag, err := s.pool.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.Deadline,
		task.ID,
		task.UserID,
	)
	if err != nil {
		return unavailable("update task", err)
	}
	if tag.RowsAffected() == 0 {
		return services.ErrTaskNotFound
	}
	return nil
}

func (s *Storage) ToggleTaskCompleted(ctx context.Context, userID, taskID int64) (bool, error) {
	const toggleTaskQuery = `
UPDATE tasks
SET completed = NOT completed
WHERE id = $1 AND user_id = $2
RETURNING completed
`
	var completed bool
	err := s.pool.QueryRow(ctx, toggleTaskQuery, taskID, userID).Scan(&completed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, services.ErrTaskNotFound
		}
		return false, unavailable("toggle task", err)
	}
	return completed, nil
}

func (s *Storage) DeleteTask(ctx context.Context, userID, taskID int64) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, unavailable("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const deleteSubtasksQuery = `
DELETE FROM tasks
WHERE parent_id = $1 AND user_id = $2
`
	subtasksTag, err := tx.Exec(ctx, deleteSubtasksQuery, taskID, userID)
	if err != nil {
		return 0, unavailable("delete subtasks", err)
	}

	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND user_id = $2
`
	taskTag, err := tx.Exec(ctx, deleteTaskQuery, taskID, userID)
	if err != nil {
		return 0, unavailable("delete task", err)
	}

	// Subtasks go even when the parent itself is not owned.
	err = tx.Commit(ctx)
	if err != nil {
		return 0, unavailable("commit transaction", err)
	}

	if taskTag.RowsAffected() == 0 {
		return subtasksTag.RowsAffected(), services.ErrTaskNotFound
	}
	return subtasksTag.RowsAffected(), nil
}

func (s *Storage) ListTopLevelTasksByDate(ctx context.Context, userID int64, date time.Time, completed bool) ([]*models.Task, error) {
	const selectTopLevelTasksByDateQuery = `
SELECT t.id,
       t.user_id,
       t.parent_id,
       t.title,
       t.description,
       t.deadline,
       t.created_date,
       t.completed,
       (SELECT COUNT(*) FROM tasks st WHERE st.parent_id = t.id AND st.user_id = t.user_id) AS subtask_count
FROM tasks t
WHERE t.user_id = $1 AND
      t.parent_id IS NULL AND
      t.created_date = $2 AND
      t.completed = $3
ORDER BY t.id
`
	return s.selectTasks(ctx, selectTopLevelTasksByDateQuery, userID, date, completed)
}

func (s *Storage) ListIncompleteTasksBefore(ctx context.Context, userID int64, date time.Time) ([]*models.Task, error) {
	const selectIncompleteTasksBeforeQuery = `
SELECT t.id,
       t.user_id,
       t.parent_id,
       t.title,
       t.description,
       t.deadline,
       t.created_date,
       t.completed,
       (SELECT COUNT(*) FROM tasks st WHERE st.parent_id = t.id AND st.user_id = t.user_id) AS subtask_count
FROM tasks t
WHERE t.user_id = $1 AND
      t.parent_id IS NULL AND
      t.created_date < $2 AND
      t.completed = FALSE
ORDER BY t.id
`
	return s.selectTasks(ctx, selectIncompleteTasksBeforeQuery, userID, date)
}

func (s *Storage) selectTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, unavailable("select tasks", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task := new(models.Task)
		err = rows.Scan(
			&task.ID,
			&task.UserID,
			&task.ParentID,
			&task.Title,
			&task.Description,
			&task.Deadline,
			&task.CreatedDate,
			&task.Completed,
			&task.SubtaskCount,
		)
		if err != nil {
			return nil, unavailable("scan task", err)
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		return nil, unavailable("iterate over rows", err)
	}
	return tasks, nil
}

func (s *Storage) ListSubtasks(ctx context.Context, userID, parentID int64) ([]models.Subtask, error) {
	const selectSubtasksQuery = `
SELECT id,
       title,
       completed
FROM tasks
WHERE parent_id = $1 AND user_id = $2
ORDER BY id
`
	rows, err := s.pool.Query(ctx, selectSubtasksQuery, parentID, userID)
	if err != nil {
		return nil, unavailable("select subtasks", err)
	}
	defer rows.Close()

	subtasks := make([]models.Subtask, 0)
	for rows.Next() {
		var subtask models.Subtask
		err = rows.Scan(
			&subtask.ID,
			&subtask.Title,
			&subtask.Completed,
		)
		if err != nil {
			return nil, unavailable("scan subtask", err)
		}
		subtasks = append(subtasks, subtask)
	}

	err = rows.Err()
	if err != nil {
		return nil, unavailable("iterate over rows", err)
	}
	return subtasks, nil
}

func (s *Storage) CarryOverTask(ctx context.Context, userID, taskID int64, date time.Time) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, unavailable("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const carryOverTaskQuery = `
UPDATE tasks
SET created_date = $1
WHERE id = $2 AND user_id = $3
`
	tag, err := tx.Exec(ctx, carryOverTaskQuery, date, taskID, userID)
	if err != nil {
		return false, unavailable("carry over task", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	const carryOverSubtasksQuery = `
UPDATE tasks
SET created_date = $1
WHERE parent_id = $2 AND user_id = $3
`
	_, err = tx.Exec(ctx, carryOverSubtasksQuery, date, taskID, userID)
	if err != nil {
		return false, unavailable("carry over subtasks", err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return false, unavailable("commit transaction", err)
	}
	return true, nil
}

func (s *Storage) CountTasks(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count)
	if err != nil {
		return 0, unavailable("count tasks", err)
	}
	return count, nil
}
