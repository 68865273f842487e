package sqlite

const (
	insertUserQuery = `INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`

	getUserByIDQuery = `
	SELECT id, username, password_hash, created_at
	FROM users
	WHERE id = ?
`

	getUserByUsernameQuery = `
	SELECT id, username, password_hash, created_at
	FROM users
	WHERE username = ?
`

	countUsersQuery = `SELECT COUNT(*) FROM users`

	deleteSessionsByUserIDQuery = `DELETE FROM sessions WHERE user_id = ?`

	insertSessionQuery = `
	INSERT INTO sessions (id, user_id, fingerprint, refresh_token, expires_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

	getSessionByIDQuery = `
	SELECT id, user_id, fingerprint, refresh_token, expires_at, created_at, updated_at
	FROM sessions
	WHERE id = ?
`

	getSessionByRefreshTokenQuery = `
	SELECT id, user_id, fingerprint, refresh_token, expires_at, created_at, updated_at
	FROM sessions
	WHERE refresh_token = ? AND fingerprint = ?
`

	updateSessionQuery = `
	UPDATE sessions
	SET refresh_token = ?, expires_at = ?, updated_at = ?
	WHERE id = ?
`

	insertTaskQuery = `
	INSERT INTO tasks (user_id, parent_id, title, description, deadline, created_date, completed)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

	getTaskQuery = `
	SELECT id, user_id, parent_id, title, description, deadline, created_date, completed
	FROM tasks
	WHERE id = ? AND user_id = ?
`

	updateTaskQuery = `
	UPDATE tasks
	SET title = ?, description = ?, deadline = ?
	WHERE id = ? AND user_id = ?
`

	toggleTaskQuery = `
	UPDATE tasks
	SET completed = NOT completed
	WHERE id = ? AND user_id = ?
`

	getTaskCompletedQuery = `SELECT completed FROM tasks WHERE id = ? AND user_id = ?`

	deleteSubtasksQuery = `DELETE FROM tasks WHERE parent_id = ? AND user_id = ?`

	deleteTaskQuery = `DELETE FROM tasks WHERE id = ? AND user_id = ?`

	getTopLevelTasksByDateQuery = `
	SELECT t.id, t.user_id, t.parent_id, t.title, t.description, t.deadline, t.created_date, t.completed,
	       (SELECT COUNT(*) FROM tasks st WHERE st.parent_id = t.id AND st.user_id = t.user_id) AS subtask_count
	FROM tasks t
	WHERE t.user_id = ? AND t.parent_id IS NULL AND t.created_date = ? AND t.completed = ?
	ORDER BY t.id
`

	getIncompleteTasksBeforeQuery = `
	SELECT t.id, t.user_id, t.parent_id, t.title, t.description, t.deadline, t.created_date, t.completed,
	       (SELECT COUNT(*) FROM tasks st WHERE st.parent_id = t.id AND st.user_id = t.user_id) AS subtask_count
	FROM tasks t
	WHERE t.user_id = ? AND t.parent_id IS NULL AND t.created_date < ? AND t.completed = 0
	ORDER BY t.id
`

	getSubtasksQuery = `
	SELECT id, title, completed
	FROM tasks
	WHERE parent_id = ? AND user_id = ?
	ORDER BY id
`

	carryOverTaskQuery = `UPDATE tasks SET created_date = ? WHERE id = ? AND user_id = ?`

	carryOverSubtasksQuery = `UPDATE tasks SET created_date = ? WHERE parent_id = ? AND user_id = ?`

	countTasksQuery = `SELECT COUNT(*) FROM tasks`
)
