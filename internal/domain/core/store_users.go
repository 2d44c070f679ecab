package core

import "context"

func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT u.id, u.name, u.email, u.role_id, r.name, u.active, u.created_at
    FROM users u
    JOIN roles r ON r.id = u.role_id
    ORDER BY u.name, u.id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.RoleID, &u.Role, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) GetUser(ctx context.Context, id int64) (User, error) {
	var u User
	err := s.DB.QueryRow(ctx, `
    SELECT u.id, u.name, u.email, u.role_id, r.name, u.active, u.created_at
    FROM users u
    JOIN roles r ON r.id = u.role_id
    WHERE u.id = $1
  `, id).Scan(&u.ID, &u.Name, &u.Email, &u.RoleID, &u.Role, &u.Active, &u.CreatedAt)
	if err != nil {
		return User{}, mapError(err)
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, user User, passwordHash string) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (name, email, password_hash, role_id)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, user.Name, user.Email, passwordHash, user.RoleID).Scan(&id)
	return id, mapError(err)
}

// UpdateUser keeps the stored password when passwordHash is empty.
func (s *Store) UpdateUser(ctx context.Context, id int64, user User, passwordHash string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users
    SET name = $1, email = $2, role_id = $3, password_hash = COALESCE($4, password_hash)
    WHERE id = $5
  `, user.Name, user.Email, user.RoleID, nullIfEmpty(passwordHash), id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ToggleUserActive(ctx context.Context, id int64) (bool, error) {
	var active bool
	err := s.DB.QueryRow(ctx, "UPDATE users SET active = NOT active WHERE id = $1 RETURNING active", id).Scan(&active)
	return active, mapError(err)
}

func (s *Store) RoleIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, "SELECT id FROM roles WHERE name = $1", name).Scan(&id)
	return id, mapError(err)
}
